package models

import "strings"

// ReceiptStatus is computed by the receipts backend from the two signatures
// and is only ever observed here.
type ReceiptStatus string

const (
	ReceiptGenerated       ReceiptStatus = "GENERATED"
	ReceiptPartiallySigned ReceiptStatus = "PARTIALLY_SIGNED"
	ReceiptFullySigned     ReceiptStatus = "FULLY_SIGNED"
	ReceiptVoided          ReceiptStatus = "VOIDED"
)

// ParseReceiptStatus accepts the enum value in any casing, with - or _.
func ParseReceiptStatus(s string) (ReceiptStatus, bool) {
	status := ReceiptStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch status {
	case ReceiptGenerated, ReceiptPartiallySigned, ReceiptFullySigned, ReceiptVoided:
		return status, true
	default:
		return "", false
	}
}

// SignatureType identifies which party signs a receipt.
type SignatureType string

const (
	SignatureDelivery  SignatureType = "delivery"
	SignatureReception SignatureType = "reception"
)

// HandoverReceipt is an "acta de entrega-recepción" documenting the custody
// transfer of an asset movement.
type HandoverReceipt struct {
	ID                      ID            `json:"id,omitempty"`
	ReceiptNumber           string        `json:"receiptNumber,omitempty"`
	ReceiptStatus           ReceiptStatus `json:"receiptStatus,omitempty"`
	MunicipalityID          ID            `json:"municipalityId,omitempty"`
	MovementID              ID            `json:"movementId" validate:"required"`
	DeliveringResponsibleID ID            `json:"deliveringResponsibleId" validate:"required"`
	ReceivingResponsibleID  ID            `json:"receivingResponsibleId" validate:"required,nefield=DeliveringResponsibleID"`
	Witness1ID              ID            `json:"witness1Id,omitempty"`
	Witness2ID              ID            `json:"witness2Id,omitempty"`
	GeneratedBy             ID            `json:"generatedBy" validate:"required"`
	DeliverySignatureDate   *Timestamp    `json:"deliverySignatureDate,omitempty"`
	ReceptionSignatureDate  *Timestamp    `json:"receptionSignatureDate,omitempty"`
	DeliveryObservations    string        `json:"deliveryObservations,omitempty" validate:"omitempty,mintrim=5"`
	ReceptionObservations   string        `json:"receptionObservations,omitempty" validate:"omitempty,mintrim=5"`
	SpecialConditions       string        `json:"specialConditions,omitempty" validate:"omitempty,mintrim=5"`
	ReceiptImageURL         string        `json:"receiptImageUrl,omitempty" validate:"omitempty,url"`
	CreatedAt               *Timestamp    `json:"createdAt,omitempty"`
	UpdatedAt               *Timestamp    `json:"updatedAt,omitempty"`
}

// IsSignedBy reports whether the given side has already signed.
func (r *HandoverReceipt) IsSignedBy(side SignatureType) bool {
	switch side {
	case SignatureDelivery:
		return r.DeliverySignatureDate != nil && !r.DeliverySignatureDate.IsZero()
	case SignatureReception:
		return r.ReceptionSignatureDate != nil && !r.ReceptionSignatureDate.IsZero()
	}
	return false
}

// IsTerminal reports whether the receipt accepts no more changes.
func (r *HandoverReceipt) IsTerminal() bool {
	return r.ReceiptStatus == ReceiptVoided || r.ReceiptStatus == ReceiptFullySigned
}

// SignRequest is the body of POST .../{id}/sign.
type SignRequest struct {
	SignatureType SignatureType `json:"signatureType" validate:"required,oneof=delivery reception"`
	SignerID      ID            `json:"signerId" validate:"required"`
	Observations  string        `json:"observations,omitempty" validate:"omitempty,mintrim=5"`
}
