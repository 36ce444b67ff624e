package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNotConfigured is returned by transports missing a required setting.
// The dispatcher does not retry it.
var ErrNotConfigured = errors.New("printer: not configured")

// Transport types accepted by NewPrinterFromConfig.
const (
	TypeUSB       = "usb"
	TypeNetwork   = "network"
	TypeBluetooth = "bluetooth"
	TypeNone      = "none"
)

// Printer is the interface for sending raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends raw ESC/POS bytes to the printer. It must return once ctx is done.
	Print(ctx context.Context, data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected returns true if the printer is reachable.
	IsConnected() bool
}

// --- Device file printers (USB /dev/usb/lp0, Bluetooth /dev/rfcomm0) ---

type devicePrinter struct {
	kind string
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &devicePrinter{kind: TypeUSB, path: devicePath}
}

// NewBluetoothPrinter creates a printer that writes to a bound RFCOMM serial device.
func NewBluetoothPrinter(devicePath string) Printer {
	return &devicePrinter{kind: TypeBluetooth, path: devicePath}
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if p.path == "" {
		return fmt.Errorf("%w: %s device path is empty", ErrNotConfigured, p.kind)
	}

	// A stalled device blocks Write indefinitely, so the write runs on its own
	// goroutine and the file is closed when ctx expires to unblock it.
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open %s device %s: %w", p.kind, p.path, err)
	}

	done := make(chan error, 1)
	go func() {
		_, werr := f.Write(data)
		done <- werr
	}()

	select {
	case werr := <-done:
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("printer: failed to write to %s device %s: %w", p.kind, p.path, werr)
		}
		return cerr
	case <-ctx.Done():
		_ = f.Close()
		return fmt.Errorf("printer: write to %s device %s: %w", p.kind, p.path, ctx.Err())
	}
}

func (p *devicePrinter) Close() error {
	return nil // device file is opened and closed per job
}

func (p *devicePrinter) IsConnected() bool {
	if p.path == "" {
		return false
	}
	_, err := os.Stat(p.path)
	return err == nil
}

// --- Network Printer (dials TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	host        string
	port        int
	dialTimeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP to host:port.
func NewNetworkPrinter(host string, port int) Printer {
	if port == 0 {
		port = 9100
	}
	return &networkPrinter{
		host:        host,
		port:        port,
		dialTimeout: 5 * time.Second,
	}
}

func (p *networkPrinter) address() string {
	return net.JoinHostPort(p.host, fmt.Sprintf("%d", p.port))
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	if p.host == "" {
		return fmt.Errorf("%w: network printer IP address is not set", ErrNotConfigured)
	}

	dialer := net.Dialer{Timeout: p.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address())
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	}

	if _, err := conn.Write(data); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("printer: write to %s: %w", p.address(), context.DeadlineExceeded)
		}
		return fmt.Errorf("printer: failed to write to %s: %w", p.address(), err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil // connection is per job
}

func (p *networkPrinter) IsConnected() bool {
	if p.host == "" {
		return false
	}
	conn, err := net.DialTimeout("tcp", p.address(), 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// --- Null Printer (no-op, used when no printer is configured) ---

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for environments without hardware.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(ctx context.Context, data []byte) error {
	return ctx.Err()
}

func (p *nullPrinter) Close() error {
	return nil
}

func (p *nullPrinter) IsConnected() bool {
	return false
}

// Options selects and configures a transport.
type Options struct {
	Type          string
	USBPath       string
	BluetoothPath string
	Host          string
	Port          int
}

// NewPrinterFromConfig creates the Printer for opts.Type: usb, network, bluetooth or none.
func NewPrinterFromConfig(opts Options) (Printer, error) {
	switch opts.Type {
	case TypeUSB:
		if opts.USBPath == "" {
			return nil, fmt.Errorf("%w: USB path is required for USB printer type", ErrNotConfigured)
		}
		return NewUSBPrinter(opts.USBPath), nil
	case TypeNetwork:
		if opts.Host == "" {
			return nil, fmt.Errorf("%w: IP address is required for network printer type", ErrNotConfigured)
		}
		return NewNetworkPrinter(opts.Host, opts.Port), nil
	case TypeBluetooth:
		if opts.BluetoothPath == "" {
			return nil, fmt.Errorf("%w: RFCOMM device is required for bluetooth printer type", ErrNotConfigured)
		}
		return NewBluetoothPrinter(opts.BluetoothPath), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, bluetooth, or none)", opts.Type)
	}
}
