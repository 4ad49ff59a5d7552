package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func validExpense() Expense {
	return Expense{
		ID:            "1710000000000",
		Description:   "Compra de supermercado",
		Amount:        Money{Cents: 4599},
		Category:      "Alimentación",
		PaymentMethod: "Tarjeta",
		Person:        SoloPersonName,
		Date:          NewDate(2024, 3, 15),
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"valid", func(e *Expense) {}, nil},
		{"zero amount is allowed", func(e *Expense) { e.Amount = Money{} }, nil},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"blank description", func(e *Expense) { e.Description = "   " }, ErrEmptyDescription},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"missing category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"missing payment method", func(e *Expense) { e.PaymentMethod = "" }, ErrEmptyPaymentMethod},
		{"missing person", func(e *Expense) { e.Person = "" }, ErrEmptyPerson},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReceipt_Validate(t *testing.T) {
	valid := Receipt{
		ID:       "r1",
		Name:     "factura-luz.pdf",
		FolderID: DefaultFolderID,
		File:     "data:application/pdf;base64,JVBERi0=",
		FileType: "application/pdf",
		Date:     NewDate(2024, 3, 15),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid receipt rejected: %v", err)
	}

	noData := valid
	noData.File = "JVBERi0="
	if err := noData.Validate(); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("raw base64 without data URL prefix: got %v, want %v", err, ErrInvalidFile)
	}

	noFolder := valid
	noFolder.FolderID = ""
	if err := noFolder.Validate(); !errors.Is(err, ErrEmptyFolder) {
		t.Errorf("missing folder: got %v, want %v", err, ErrEmptyFolder)
	}
}

func TestLivingStatus_IsValid(t *testing.T) {
	if !LivingSolo.IsValid() || !LivingAccompanied.IsValid() {
		t.Error("known statuses reported invalid")
	}
	if LivingStatus("roommates").IsValid() {
		t.Error("unknown status reported valid")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rfc3339", `"2024-03-15T00:00:00Z"`, "2024-03-15"},
		{"rfc3339 with offset", `"2024-03-15T23:30:00-03:00"`, "2024-03-15"},
		{"bare day from older blobs", `"2024-03-15"`, "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if d.Key() != tt.want {
				t.Errorf("Key() = %s, want %s", d.Key(), tt.want)
			}
		})
	}

	var d Date
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Error("unmarshal accepted garbage date")
	}

	b, err := json.Marshal(NewDate(2024, 3, 15))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-15T00:00:00Z"` {
		t.Errorf("marshal = %s", b)
	}
}
