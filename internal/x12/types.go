package x12

// TransactionHeader holds the transaction-scoped header data set by the
// ST/BHT segments, plus interchange identifiers captured from ISA.
type TransactionHeader struct {
	Type          string `json:"type"`
	ControlNumber string `json:"controlNumber"`
	Version       string `json:"version"`
	Purpose       string `json:"purpose"`
	ReferenceID   string `json:"referenceId"`
	Date          string `json:"date"`
	Time          string `json:"time"`

	InterchangeSenderID   string `json:"interchangeSenderId,omitempty"`
	InterchangeReceiverID string `json:"interchangeReceiverId,omitempty"`
	InterchangeDate       string `json:"interchangeDate,omitempty"`
	InterchangeTime       string `json:"interchangeTime,omitempty"`
}

// Address is a street address completed by an N3/N4 segment pair.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Contact is a PER contact entry.
type Contact struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Extension string `json:"extension"`
}

// Party is one real-world participant in the transaction: submitter,
// receiver, billing provider, pay-to provider, subscriber, payer,
// rendering provider, or service facility. Dependent fields (address,
// contact, demographics, insurance) are only populated while the party
// is the current entity context.
type Party struct {
	Name        string   `json:"name,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	ID          string   `json:"id,omitempty"`
	IDQualifier string   `json:"idQualifier,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`

	// Demographics (DMG).
	DateOfBirth string `json:"dob,omitempty"`
	Sex         string `json:"sex,omitempty"`

	// Insurance info (SBR), populated on the subscriber only.
	Relationship string `json:"relationship,omitempty"`
	GroupNumber  string `json:"groupNumber,omitempty"`
	PlanType     string `json:"planType,omitempty"`
}

// Indicators holds the claim-level yes/no indicator codes from CLM.
type Indicators struct {
	Assigned          string `json:"assigned"`
	ProviderSignature string `json:"providerSignature"`
	ReleaseInfo       string `json:"releaseInfo"`
	PatientSignature  string `json:"patientSignature"`
}

// Diagnosis holds the diagnosis codes from an HI segment. The first
// element encountered is the primary code; the rest are secondary, in
// encountered order.
type Diagnosis struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary"`
}

// ServiceLine is one billed service within a claim (LX/SV1 pair plus a
// line-level DTP service date).
type ServiceLine struct {
	LineNumber       int     `json:"lineNumber"`
	CodeQualifier    string  `json:"codeQualifier"`
	ProcedureCode    string  `json:"procedureCode"`
	Charge           float64 `json:"charge"`
	UnitQualifier    string  `json:"unitQualifier"`
	Units            float64 `json:"units"`
	DiagnosisPointer string  `json:"diagnosisPointer"`
	PlaceOfService   string  `json:"placeOfService"`
	ServiceDate      string  `json:"serviceDate"`
}

// ClaimDetail holds the claim's own scalar fields, separate from its
// diagnosis codes and service lines.
type ClaimDetail struct {
	ID                       string     `json:"id"`
	TotalCharge              float64    `json:"totalCharge"`
	PlaceOfService           string     `json:"placeOfService"`
	Indicators               Indicators `json:"indicators"`
	OnsetDate                string     `json:"onsetDate"`
	ClearinghouseClaimNumber string     `json:"clearinghouseClaimNumber"`
}

// Claim is one billable encounter accumulated between a CLM segment and
// the next CLM (or end of stream). Payer, RenderingProvider and
// ServiceFacility are claim-scoped overrides of the transaction-level
// defaults, present only when introduced while this claim was open.
type Claim struct {
	Detail       ClaimDetail
	Diagnosis    Diagnosis
	ServiceLines []ServiceLine

	Payer             *Party
	RenderingProvider *Party
	ServiceFacility   *Party
}

// ClaimRecord is the combined output for one sealed claim: the shared
// transaction header and transaction-level parties, plus the claim's own
// data with claim-scoped overrides resolved.
type ClaimRecord struct {
	Transaction       TransactionHeader `json:"transaction"`
	Submitter         Party             `json:"submitter"`
	Receiver          Party             `json:"receiver"`
	BillingProvider   Party             `json:"billingProvider"`
	PayToProvider     Party             `json:"payToProvider"`
	Subscriber        Party             `json:"subscriber"`
	Payer             Party             `json:"payer"`
	Claim             ClaimDetail       `json:"claim"`
	Diagnosis         Diagnosis         `json:"diagnosis"`
	RenderingProvider *Party            `json:"renderingProvider,omitempty"`
	ServiceFacility   Party             `json:"serviceFacility"`
	ServiceLines      []ServiceLine     `json:"serviceLines"`
}

// Summary holds per-file counts for reporting and validation.
type Summary struct {
	Segments     int `json:"totalSegments"`
	Claims       int `json:"totalClaims"`
	ServiceLines int `json:"totalServiceLines"`
}

// FileResult is the complete output for one interpreted file: one
// ClaimRecord per claim, in stream order, plus summary counts.
type FileResult struct {
	SourceFile string        `json:"sourceFile"`
	Summary    Summary       `json:"summary"`
	Claims     []ClaimRecord `json:"claims"`
}
