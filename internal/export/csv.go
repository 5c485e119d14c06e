package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"travelbook/internal/models"
)

// CSVHeader is the fixed column layout of the flat-file mirror.
var CSVHeader = []string{"Type", "From", "To", "Date", "Passengers", "Name", "Email", "Payment"}

// FileSink appends bookings to a CSV file. The mutex only serialises writers
// inside this process; other processes appending to the same file are not
// coordinated.
type FileSink struct {
	path string
	mu   sync.Mutex
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Path() string {
	return s.path
}

// Append writes one row. The header is written only when the file is created.
func (s *FileSink) Append(booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create csv directory: %w", err)
		}
	}

	writeHeader := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		writeHeader = true
	} else if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(CSVHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := w.Write(CSVRecord(booking)); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Sync()
}

// CSVRecord renders a booking in CSVHeader column order.
func CSVRecord(b *models.Booking) []string {
	return []string{
		string(b.Type),
		b.Departure,
		b.Arrival,
		b.TravelDate.Format(models.DateLayout),
		strconv.Itoa(b.Passengers),
		b.FullName,
		b.Email,
		string(b.PaymentStatus),
	}
}
