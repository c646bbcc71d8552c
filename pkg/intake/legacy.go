package intake

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Per-field keys written by clients before the record existed.
const (
	legacyName             = "intake_name"
	legacyContact          = "intake_contact"
	legacyDOB              = "intake_dob"
	legacyAddress          = "intake_address"
	legacySessionID        = "intake_session_id"
	legacySubmittedID      = "submitted_intake_id"
	legacyCheckoutRedirect = "checkout_redirect_in_progress"
)

// legacyKeys are removed by Wipe even though they lack the intake_ prefix.
var legacyKeys = []string{
	// questionnaire answers
	"activity_level",
	"medication_preference",
	"glp1_history",
	"glp1_type",
	"has_chronic_conditions",
	"chronic_conditions",
	"digestive_conditions",
	"taking_medications",
	"current_medications",
	"allergies",
	"has_mental_health_condition",
	"mental_health_conditions",
	"surgery_history",
	"surgery_details",
	"blood_pressure",
	"alcohol_consumption",
	"common_side_effects",
	"personalized_treatment_interest",
	"referral_sources",
	"referrer_name",
	"referrer_type",
	"health_improvements",
	"completed_checkpoints",
	"personal_thyroid_cancer",
	"personal_men",
	"personal_pancreatitis",
	"personal_gastroparesis",
	"personal_diabetes_t2",
	"pregnancy_breastfeeding",
	"semaglutide_dosage",
	"semaglutide_side_effects",
	"semaglutide_success",
	"tirzepatide_dosage",
	"tirzepatide_side_effects",
	"tirzepatide_success",
	"dosage_satisfaction",
	"dosage_interest",
	"recreational_drugs",
	"weight_loss_history",
	"weight_loss_support",
	"kidney_conditions",
	"medical_conditions",
	"family_conditions",

	// consents
	"privacy_policy_accepted",
	"privacy_policy_accepted_at",
	"terms_of_use_accepted",
	"terms_of_use_accepted_at",
	"consent_privacy_policy_accepted",
	"consent_privacy_policy_accepted_at",
	"telehealth_consent_accepted",
	"telehealth_consent_accepted_at",
	"cancellation_policy_accepted",
	"cancellation_policy_accepted_at",
	"florida_bill_of_rights_accepted",
	"florida_bill_of_rights_accepted_at",
	"florida_consent_accepted",
	"florida_consent_accepted_at",

	// submission tracking
	"submission_status",
	"submission_error",
	legacySubmittedID,
	legacyCheckoutRedirect,

	"eon-intake-storage",
}

// reloadMarkers are legacy keys whose presence means a session was under
// way. Contact details alone do not count; startedMarkers adds them.
var (
	reloadMarkers  = []string{"intake_goals", legacyName, "intake_state"}
	startedMarkers = append(append([]string(nil), reloadMarkers...), legacyContact)
)

// parseLegacy decodes a legacy JSON blob into v. Values that do not look
// like JSON, or fail to decode, leave v untouched.
func parseLegacy(s Storage, key string, v any) {
	raw, ok := s.Get(key)
	if !ok {
		return
	}
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		slog.Warn("ignoring malformed legacy intake field", "key", key, "err", err)
	}
}

func migrateLegacy(s Storage) Record {
	rec := New()
	parseLegacy(s, legacyName, &rec.Name)
	parseLegacy(s, legacyContact, &rec.Contact)
	parseLegacy(s, legacyDOB, &rec.DOB)
	parseLegacy(s, legacyAddress, &rec.Address)
	if id, ok := s.Get(legacySessionID); ok && id != "" {
		rec.SessionID = id
	}
	if id, ok := s.Get(legacySubmittedID); ok {
		rec.SubmittedIntakeID = id
	}
	if v, ok := s.Get(legacyCheckoutRedirect); ok {
		rec.CheckoutRedirect = v == "true"
	}

	structured := map[string]bool{
		legacyName: true, legacyContact: true, legacyDOB: true,
		legacyAddress: true, legacySessionID: true, RecordKey: true,
	}
	for _, k := range s.Keys() {
		if !strings.HasPrefix(k, "intake_") || structured[k] {
			continue
		}
		if v, ok := s.Get(k); ok {
			rec.SetAnswer(strings.TrimPrefix(k, "intake_"), v)
		}
	}
	return rec
}

// Wipe removes the record and every key that may hold PHI: intake_-prefixed
// keys, keys mentioning consent or personal, and the known legacy keys.
func Wipe(s Storage) {
	for _, k := range s.Keys() {
		if k == RecordKey || strings.HasPrefix(k, "intake_") ||
			strings.Contains(k, "consent") || strings.Contains(k, "personal") {
			s.Remove(k)
		}
	}
	for _, k := range legacyKeys {
		s.Remove(k)
	}
}

// HasPriorData reports whether s holds answers from an earlier page load.
// A record holding only contact details does not qualify.
func HasPriorData(s Storage) bool {
	return hasAny(s, reloadMarkers, func(r Record) bool {
		r.Contact = Contact{}
		return r.HasData()
	})
}

// HasStarted reports whether the patient has entered anything at all,
// contact details included.
func HasStarted(s Storage) bool {
	return hasAny(s, startedMarkers, Record.HasData)
}

func hasAny(s Storage, markers []string, recordHasData func(Record) bool) bool {
	if raw, ok := s.Get(RecordKey); ok {
		var rec Record
		if json.Unmarshal([]byte(raw), &rec) == nil && recordHasData(rec) {
			return true
		}
	}
	for _, k := range markers {
		if v, ok := s.Get(k); ok && v != "" {
			return true
		}
	}
	_, ok := s.Get("eon-intake-storage")
	return ok
}
