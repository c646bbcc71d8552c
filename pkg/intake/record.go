// Package intake holds the patient answers collected by the intake wizard as
// one typed, versioned record in client storage.
//
// Older clients wrote one JSON blob per field (intake_name, intake_contact,
// ...). Load migrates those on first read; the record is the only thing
// written afterwards.
package intake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// RecordKey is the storage key of the intake record.
	RecordKey = "intake_record"
	// Version is the record layout written by this package.
	Version = 2
)

type Name struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DateOfBirth keeps the wizard's raw month/day/year strings.
type DateOfBirth struct {
	Month string `json:"month,omitempty"`
	Day   string `json:"day,omitempty"`
	Year  string `json:"year,omitempty"`
}

func (d DateOfBirth) complete() bool { return d.Month != "" && d.Day != "" && d.Year != "" }

type ShippingAddress struct {
	Street      string `json:"street"`
	Unit        string `json:"unit,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	FullAddress string `json:"fullAddress"`
}

// Record is everything the wizard has collected in this browser session.
type Record struct {
	Version   int    `json:"version"`
	SessionID string `json:"sessionId,omitempty"`

	Name    Name            `json:"name"`
	Contact Contact         `json:"contact"`
	DOB     DateOfBirth     `json:"dob"`
	Address ShippingAddress `json:"address"`
	// Answers holds the remaining questionnaire answers by question key.
	Answers map[string]string `json:"answers,omitempty"`

	// SubmittedIntakeID is the CRM record id returned when the intake was submitted.
	SubmittedIntakeID string `json:"submittedIntakeId,omitempty"`
	// CheckoutRedirect is set while the browser is being sent to checkout.
	CheckoutRedirect bool      `json:"checkoutRedirect,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt,omitempty"`
}

// New returns an empty record with a fresh session id.
func New() Record {
	return Record{Version: Version, SessionID: uuid.NewString()}
}

// Load reads the record from s. It never fails: a missing record is
// migrated from legacy keys, and a malformed or newer record yields an
// empty one.
func Load(s Storage) Record {
	raw, ok := s.Get(RecordKey)
	if !ok {
		return migrateLegacy(s)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		slog.Warn("discarding malformed intake record", "err", err)
		return New()
	}
	if rec.Version > Version {
		slog.Warn("discarding intake record from a newer client", "version", rec.Version)
		return New()
	}
	rec.Version = Version
	if rec.SessionID == "" {
		rec.SessionID = uuid.NewString()
	}
	return rec
}

// Save writes rec to s under RecordKey.
func Save(s Storage, rec Record) error {
	rec.Version = Version
	rec.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal intake record: %w", err)
	}
	s.Set(RecordKey, string(b))
	return nil
}

// SetAnswer records a questionnaire answer. An empty value removes it.
func (r *Record) SetAnswer(key, value string) {
	if value == "" {
		delete(r.Answers, key)
		return
	}
	if r.Answers == nil {
		r.Answers = make(map[string]string)
	}
	r.Answers[key] = value
}

// PatientInfo is the identity block sent to checkout.
type PatientInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	// DOB is M/D/Y, empty unless all three parts are known.
	DOB string
}

func (p PatientInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (r Record) PatientInfo() PatientInfo {
	info := PatientInfo{
		FirstName: r.Name.FirstName,
		LastName:  r.Name.LastName,
		Email:     r.Contact.Email,
		Phone:     r.Contact.Phone,
	}
	if r.DOB.complete() {
		info.DOB = r.DOB.Month + "/" + r.DOB.Day + "/" + r.DOB.Year
	}
	return info
}

// ShippingAddress returns the address, or false when neither a street nor
// a full address was entered.
func (r Record) ShippingAddress() (ShippingAddress, bool) {
	if r.Address.Street == "" && r.Address.FullAddress == "" {
		return ShippingAddress{}, false
	}
	return r.Address, true
}

// HasData reports whether the patient has entered anything yet.
func (r Record) HasData() bool {
	return r.Name != (Name{}) ||
		r.Contact != (Contact{}) ||
		r.DOB != (DateOfBirth{}) ||
		r.Address != (ShippingAddress{}) ||
		len(r.Answers) > 0
}
