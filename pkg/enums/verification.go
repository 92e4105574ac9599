package enums

import "fmt"

// VerificationStatus maps to the verification_status enum in Postgres.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusApproved VerificationStatus = "APPROVED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationStatusPending,
	VerificationStatusApproved,
	VerificationStatusRejected,
}

func (s VerificationStatus) String() string {
	return string(s)
}

func (s VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsFinal reports whether the status admits no further review.
func (s VerificationStatus) IsFinal() bool {
	return s == VerificationStatusApproved || s == VerificationStatusRejected
}

// ParseVerificationStatus converts raw input into VerificationStatus.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}

// DocumentType enumerates the identity documents accepted for verification.
type DocumentType string

const (
	DocumentTypePassport       DocumentType = "PASSPORT"
	DocumentTypeDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocumentTypeNationalID     DocumentType = "NATIONAL_ID"
	DocumentTypeOther          DocumentType = "OTHER"
)

var validDocumentTypes = []DocumentType{
	DocumentTypePassport,
	DocumentTypeDriversLicense,
	DocumentTypeNationalID,
	DocumentTypeOther,
}

func (d DocumentType) String() string {
	return string(d)
}

func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
