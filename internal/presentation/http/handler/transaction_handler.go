package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/application/service"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/request"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
	"github.com/sangkips/repairpos/pkg/pagination"
)

// TransactionHandler handles checkout and the sale lifecycle
type TransactionHandler struct {
	transactionService *service.TransactionService
	syncService        *service.SyncService
	printerService     *service.PrinterService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionService *service.TransactionService,
	syncService *service.SyncService,
	printerService *service.PrinterService,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		syncService:        syncService,
		printerService:     printerService,
	}
}

// CreateTransaction commits a sale, or queues it when the store database is unreachable
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input := &service.CommitInput{
		ClientReference: req.ClientReference,
		EmployeeID:      GetEmployeeID(c),
		CashierName:     GetEmployeeName(c),
		Discount:        req.Discount,
		Tax:             req.Tax,
		PaymentMethod:   enum.PaymentMethod(req.PaymentMethod),
		CashReceived:    req.CashReceived,
		LocationID:      req.LocationID,
		RegisterID:      req.RegisterID,
		ShiftID:         req.ShiftID,
		CapturedAt:      req.CapturedAt,
	}
	if input.LocationID == "" {
		input.LocationID = GetLocationID(c)
	}
	if input.RegisterID == "" {
		input.RegisterID = GetRegisterID(c)
	}
	if req.CustomerID != nil {
		customerID, _ := uuid.Parse(*req.CustomerID)
		input.CustomerID = &customerID
	}
	for _, item := range req.Items {
		itemID, _ := uuid.Parse(item.InventoryItemID)
		input.Items = append(input.Items, service.CommitItemInput{
			InventoryItemID: itemID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
		})
	}

	ctx := c.Request.Context()

	if !h.syncService.IsOnline(ctx) {
		entry, err := h.syncService.Enqueue(ctx, input)
		if err != nil {
			response.Error(c, err)
			return
		}
		depth, err := h.syncService.Depth(ctx)
		if err != nil {
			log.Warningf("failed to read offline queue depth: %v", err)
		}
		response.Accepted(c, "Store is offline, sale queued for sync", response.OfflineAcceptedResponse{
			LocalID:    entry.LocalID,
			Seq:        entry.Seq,
			QueueDepth: depth,
		})
		return
	}

	result, err := h.transactionService.Commit(ctx, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := response.CheckoutResponse{CommitResult: result}
	if result.Duplicate {
		response.OK(c, "Transaction already committed", out)
		return
	}

	if req.Print == nil || *req.Print {
		job, err := h.printerService.PrintReceipt(ctx, result.Receipt)
		if err != nil {
			// The sale stands even if the receipt cannot be queued.
			log.Warningf("receipt %s not queued: %v", result.Transaction.ReceiptNo, err)
			out.PrintError = err.Error()
		} else {
			out.PrintJob = &job
		}
	}

	response.Created(c, "Transaction committed successfully", out)
}

// ListTransactions lists transactions with filters
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req request.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Status:     enum.TransactionStatus(req.Status),
		RegisterID: req.RegisterID,
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			response.BadRequest(c, "Invalid from date, use RFC3339")
			return
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			response.BadRequest(c, "Invalid to date, use RFC3339")
			return
		}
		params.To = &to
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Transactions retrieved successfully", result)
}

// GetTransaction retrieves a transaction with its items
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", tx)
}

// VoidTransaction voids a completed sale
func (h *TransactionHandler) VoidTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactionService.Void(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction voided successfully", tx)
}

// RefundTransaction refunds all or part of a completed sale
func (h *TransactionHandler) RefundTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.RefundTransactionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	items := make([]service.RefundItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, _ := uuid.Parse(item.InventoryItemID)
		items = append(items, service.RefundItemInput{InventoryItemID: itemID, Quantity: item.Quantity})
	}

	result, err := h.transactionService.Refund(c.Request.Context(), id, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction refunded successfully", result)
}

// GetReceipt returns the receipt of a transaction
func (h *TransactionHandler) GetReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.transactionService.Receipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// PrintReceipt queues a reprint of a transaction's receipt
func (h *TransactionHandler) PrintReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	ctx := c.Request.Context()
	receipt, err := h.transactionService.Receipt(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	job, err := h.printerService.PrintReceipt(ctx, receipt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Receipt queued for printing", job)
}
