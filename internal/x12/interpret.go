package x12

import (
	"fmt"
	"io"
	"strings"
)

// Date qualifiers routed by DTP segments. Anything else is a
// forward-compatible no-op.
const (
	dateQualOnset     = "431"
	dateQualAdmission = "454"
	dateQualService   = "472"
)

// refQualClearinghouse is the REF qualifier for the clearinghouse claim
// number.
const refQualClearinghouse = "D9"

// Interpreter walks an ordered segment stream and accumulates one
// FileResult. All mutable state lives here; one Interpreter handles
// exactly one file and is then discarded.
type Interpreter struct {
	header  TransactionHeader
	parties map[Role]*Party
	ctx     *entityContext

	current *Claim
	sealed  []*Claim

	segments int
}

// NewInterpreter creates an interpreter with empty transaction-level
// party buckets.
func NewInterpreter() *Interpreter {
	it := &Interpreter{
		parties: make(map[Role]*Party),
		ctx:     newEntityContext(),
	}
	for _, r := range []Role{
		RoleSubmitter, RoleReceiver, RoleBillingProvider,
		RolePayToProvider, RoleSubscriber, RolePayer,
	} {
		it.parties[r] = &Party{}
	}
	return it
}

// Run drains src through a fresh interpreter and builds the result.
// Source errors other than io.EOF fail the whole file.
func Run(src Source, sourceFile string) (*FileResult, error) {
	it := NewInterpreter()
	for {
		seg, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading segment stream: %w", err)
		}
		it.Feed(seg)
	}
	return it.Finish(sourceFile), nil
}

// Feed consumes one segment, updating exactly one of the transaction
// header, a party bucket, the entity context, or the open claim.
// Unknown segment IDs are counted and otherwise ignored.
func (it *Interpreter) Feed(seg Segment) {
	it.segments++

	switch seg.ID {
	case "ISA":
		it.feedISA(seg)
	case "ST":
		it.header.Type = CleanValue(seg.Elem(1))
		it.header.ControlNumber = CleanValue(seg.Elem(2))
		it.header.Version = CleanValue(seg.Elem(3))
	case "BHT":
		it.header.Purpose = CleanValue(seg.Elem(2))
		it.header.ReferenceID = CleanValue(seg.Elem(3))
		it.header.Date = ParseDate(CleanValue(seg.Elem(4)))
		it.header.Time = ParseTime(CleanValue(seg.Elem(5)))
	case "NM1":
		it.feedNM1(seg)
	case "N3":
		it.ctx.beginAddress(CleanValue(seg.Elem(1)))
	case "N4":
		it.ctx.completeAddress(
			CleanValue(seg.Elem(1)),
			CleanValue(seg.Elem(2)),
			CleanValue(seg.Elem(3)),
		)
	case "PER":
		if p := it.ctx.currentParty(); p != nil {
			p.Contact = &Contact{
				Name:      CleanValue(seg.Elem(2)),
				Phone:     CleanValue(seg.Elem(4)),
				Extension: CleanValue(seg.Elem(6)),
			}
		}
	case "DMG":
		if p := it.ctx.currentParty(); p != nil {
			p.DateOfBirth = ParseDate(CleanValue(seg.Elem(2)))
			p.Sex = CleanValue(seg.Elem(3))
		}
	case "SBR":
		it.feedSBR(seg)
	case "CLM":
		it.feedCLM(seg)
	case "HI":
		it.feedHI(seg)
	case "DTP":
		it.feedDTP(seg)
	case "REF":
		it.feedREF(seg)
	case "LX":
		it.feedLX(seg)
	case "SV1":
		it.feedSV1(seg)
	}
}

// feedISA seeds submitter and receiver identifiers from the interchange
// header. NM1 41/40 segments later overwrite these with proper names.
func (it *Interpreter) feedISA(seg Segment) {
	sender := CleanValue(seg.Elem(6))
	receiver := CleanValue(seg.Elem(8))

	it.parties[RoleSubmitter].Name = sender
	it.parties[RoleReceiver].Name = receiver
	it.parties[RoleReceiver].ID = receiver

	it.header.InterchangeSenderID = sender
	it.header.InterchangeReceiverID = receiver
	// ISA09 carries a two-digit year.
	if d := CleanValue(seg.Elem(9)); len(d) == 6 {
		it.header.InterchangeDate = ParseDate("20" + d)
	}
	it.header.InterchangeTime = ParseTime(CleanValue(seg.Elem(10)))
}

func (it *Interpreter) feedNM1(seg Segment) {
	code := CleanValue(seg.Elem(1))
	record := &Party{
		Name:        CleanValue(seg.Elem(3)),
		FirstName:   CleanValue(seg.Elem(4)),
		LastName:    CleanValue(seg.Elem(3)),
		ID:          CleanValue(seg.Elem(9)),
		IDQualifier: CleanValue(seg.Elem(8)),
	}

	role, ok := entityRoles[code]
	if !ok {
		it.ctx.introduce(code, nil)
		return
	}

	if role.claimScoped() && it.current != nil {
		switch role {
		case RolePayer:
			it.current.Payer = record
		case RoleRenderingProvider:
			it.current.RenderingProvider = record
		case RoleServiceFacility:
			it.current.ServiceFacility = record
		}
		it.ctx.introduce(code, record)
		return
	}

	// Transaction-level bucket: set only the identity fields so values
	// placed by other segments (SBR insurance info, DMG demographics)
	// survive the introduction. A new introduction starts a fresh
	// address.
	bucket, ok := it.parties[role]
	if !ok {
		bucket = &Party{}
		it.parties[role] = bucket
	}
	bucket.Name = record.Name
	bucket.FirstName = record.FirstName
	bucket.LastName = record.LastName
	bucket.ID = record.ID
	bucket.IDQualifier = record.IDQualifier
	bucket.Address = nil
	it.ctx.introduce(code, bucket)
}

// feedSBR sets subscriber insurance info. The relationship code defaults
// to "self" when the segment is too short to carry one.
func (it *Interpreter) feedSBR(seg Segment) {
	sub := it.parties[RoleSubscriber]
	if len(seg.Elements) >= 2 {
		sub.Relationship = CleanValue(seg.Elem(2))
	} else {
		sub.Relationship = "self"
	}
	sub.GroupNumber = CleanValue(seg.Elem(3))
	sub.PlanType = CleanValue(seg.Elem(5))
}

// feedCLM seals any open claim and opens a new one. This is the only
// claim boundary in the stream.
func (it *Interpreter) feedCLM(seg Segment) {
	if it.current != nil {
		it.sealed = append(it.sealed, it.current)
	}
	// Sealed claims are final: drop attribution targets living inside
	// the previous claim so stray dependent segments cannot reach them.
	it.ctx.clearClaimScoped()
	it.current = &Claim{
		Detail: ClaimDetail{
			ID:          CleanValue(seg.Elem(1)),
			TotalCharge: SafeFloat(seg.Elem(2), 0),
			Indicators: Indicators{
				ProviderSignature: CleanValue(seg.Elem(6)),
				Assigned:          CleanValue(seg.Elem(7)),
				PatientSignature:  CleanValue(seg.Elem(8)),
				ReleaseInfo:       CleanValue(seg.Elem(9)),
			},
		},
		Diagnosis:    Diagnosis{Secondary: []string{}},
		ServiceLines: []ServiceLine{},
	}
}

// feedHI collects diagnosis codes: the code in element 1 is primary, all
// later non-empty elements are secondary in encountered order.
func (it *Interpreter) feedHI(seg Segment) {
	if it.current == nil {
		return
	}
	for i := 1; i <= len(seg.Elements); i++ {
		raw := seg.Elem(i)
		if CleanValue(raw) == "" {
			continue
		}
		code := CleanCode(raw)
		if i == 1 {
			it.current.Diagnosis.Primary = code
		} else {
			it.current.Diagnosis.Secondary = append(it.current.Diagnosis.Secondary, code)
		}
	}
}

func (it *Interpreter) feedDTP(seg Segment) {
	if it.current == nil {
		return
	}
	qualifier := CleanValue(seg.Elem(1))
	value := ParseDate(CleanValue(seg.Elem(3)))

	switch qualifier {
	case dateQualOnset, dateQualAdmission:
		it.current.Detail.OnsetDate = value
	case dateQualService:
		if n := len(it.current.ServiceLines); n > 0 {
			it.current.ServiceLines[n-1].ServiceDate = value
		}
	}
}

func (it *Interpreter) feedREF(seg Segment) {
	if it.current == nil {
		return
	}
	if CleanValue(seg.Elem(1)) == refQualClearinghouse {
		it.current.Detail.ClearinghouseClaimNumber = CleanValue(seg.Elem(2))
	}
}

func (it *Interpreter) feedLX(seg Segment) {
	if it.current == nil {
		return
	}
	it.current.ServiceLines = append(it.current.ServiceLines, ServiceLine{
		LineNumber: SafeInt(seg.Elem(1), 0),
	})
}

// feedSV1 fills the most recently created line of the open claim. With
// no open line the segment is dropped.
func (it *Interpreter) feedSV1(seg Segment) {
	if it.current == nil || len(it.current.ServiceLines) == 0 {
		return
	}
	line := &it.current.ServiceLines[len(it.current.ServiceLines)-1]

	// Composite procedure: qualifier, code, then optional modifiers
	// which are dropped.
	procedure := CleanValue(seg.Elem(1))
	if parts := strings.SplitN(procedure, ":", 3); len(parts) >= 2 {
		line.CodeQualifier = parts[0]
		line.ProcedureCode = parts[1]
	} else {
		line.ProcedureCode = procedure
	}

	line.Charge = SafeFloat(seg.Elem(2), 0)
	line.UnitQualifier = CleanValue(seg.Elem(3))
	line.Units = SafeFloat(seg.Elem(4), 0)

	if pos := CleanValue(seg.Elem(5)); pos != "" {
		line.PlaceOfService = pos
		if it.current.Detail.PlaceOfService == "" {
			it.current.Detail.PlaceOfService = pos
		}
	}

	if ptr := CleanValue(seg.Elem(7)); ptr != "" {
		line.DiagnosisPointer = ptr
	}
}

// Finish seals the open claim, resolves the pay-to default, and builds
// one ClaimRecord per sealed claim in stream order.
func (it *Interpreter) Finish(sourceFile string) *FileResult {
	if it.current != nil {
		it.sealed = append(it.sealed, it.current)
		it.current = nil
	}

	// No explicit pay-to provider: snapshot the billing provider so a
	// later mutation to one does not touch the other.
	if it.parties[RolePayToProvider].Name == "" {
		snapshot := *it.parties[RoleBillingProvider]
		it.parties[RolePayToProvider] = &snapshot
	}

	result := &FileResult{
		SourceFile: sourceFile,
		Claims:     []ClaimRecord{},
	}
	result.Summary.Segments = it.segments
	result.Summary.Claims = len(it.sealed)

	for _, claim := range it.sealed {
		result.Summary.ServiceLines += len(claim.ServiceLines)
		result.Claims = append(result.Claims, it.buildRecord(claim))
	}
	return result
}

// buildRecord combines the shared transaction data with one claim,
// letting claim-scoped party overrides win over transaction-level
// defaults.
func (it *Interpreter) buildRecord(claim *Claim) ClaimRecord {
	rec := ClaimRecord{
		Transaction:     it.header,
		Submitter:       *it.parties[RoleSubmitter],
		Receiver:        *it.parties[RoleReceiver],
		BillingProvider: *it.parties[RoleBillingProvider],
		PayToProvider:   *it.parties[RolePayToProvider],
		Subscriber:      *it.parties[RoleSubscriber],
		Payer:           *it.parties[RolePayer],
		Claim:           claim.Detail,
		Diagnosis:       claim.Diagnosis,
		ServiceFacility: *it.parties[RoleBillingProvider],
		ServiceLines:    claim.ServiceLines,
	}

	if claim.Payer != nil {
		rec.Payer = *claim.Payer
	}
	if claim.RenderingProvider != nil {
		rp := *claim.RenderingProvider
		rec.RenderingProvider = &rp
	}
	if claim.ServiceFacility != nil {
		rec.ServiceFacility = *claim.ServiceFacility
	}
	return rec
}
