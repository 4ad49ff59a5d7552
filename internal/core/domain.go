package core

import (
	"errors"
	"strings"
	"time"
)

// Sentinel names written into expenses when the named entity they
// referenced is deleted, plus the fixed defaults for the receipt
// folder tree and single-occupant households.
const (
	UncategorizedName    = "Sin categoría"
	CashPaymentName      = "Efectivo"
	UnassignedPersonName = "Sin asignar"
	SoloPersonName       = "Yo"

	DefaultFolderID   = "default"
	DefaultFolderName = "General"
)

const (
	LivingSolo        LivingStatus = "solo"
	LivingAccompanied LivingStatus = "acompañado"
)

type (
	// LivingStatus toggles whether per-person expense splitting is active.
	LivingStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID            string `json:"id"`
		Description   string `json:"description"`
		Amount        Money  `json:"amount"`
		Category      string `json:"category"`
		PaymentMethod string `json:"paymentMethod"`
		Person        string `json:"person"`
		Date          Date   `json:"date"`
		ReceiptID     string `json:"receiptId,omitempty"` // weak reference, may dangle
	}

	// Receipt is a scanned document stored inline as a base64 data URL.
	Receipt struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		FolderID string `json:"folderId"`
		File     string `json:"file"`
		FileType string `json:"fileType"`
		Date     Date   `json:"date"`
		Notes    string `json:"notes,omitempty"`
	}

	ReceiptFolder struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Settings is the process-wide configuration singleton.
	Settings struct {
		LivingStatus LivingStatus `json:"livingStatus"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyPaymentMethod = errors.New("empty payment method")
	ErrEmptyPerson        = errors.New("empty person")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyFolder        = errors.New("empty folder id")
	ErrInvalidFile        = errors.New("file is not a base64 data URL")
	ErrInvalidStatus      = errors.New("invalid living status")
)

// NewDate creates a Date at UTC midnight for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// StartOfDay drops the time-of-day component, keeping the calendar day.
func (d Date) StartOfDay() Date {
	year, month, day := d.Date()
	return NewDate(year, int(month), day)
}

// AddDays returns the date n calendar days later (earlier when negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Key returns the canonical yyyy-mm-dd form used for day bucketing.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as an RFC 3339 string, the form the
// persisted collections have always used.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as bare yyyy-mm-dd
// values found in older blobs.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return ErrInvalidDate
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return ErrInvalidDate
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s LivingStatus) IsValid() bool {
	return s == LivingSolo || s == LivingAccompanied
}

func (s Settings) Validate() error {
	if !s.LivingStatus.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	if strings.TrimSpace(e.Person) == "" {
		return ErrEmptyPerson
	}
	return nil
}

func (r Receipt) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.FolderID) == "" {
		return ErrEmptyFolder
	}
	if !strings.HasPrefix(r.File, "data:") || !strings.Contains(r.File, ";base64,") {
		return ErrInvalidFile
	}
	return r.Date.Validate()
}

func (f ReceiptFolder) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return ErrEmptyFolder
	}
	if len(strings.TrimSpace(f.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}
