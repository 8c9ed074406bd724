package x12

// Role identifies which party an entity-introduction segment describes.
type Role int

const (
	RoleNone Role = iota
	RoleSubmitter
	RoleReceiver
	RoleBillingProvider
	RolePayToProvider
	RoleSubscriber
	RolePayer
	RoleRenderingProvider
	RoleServiceFacility
)

func (r Role) String() string {
	switch r {
	case RoleSubmitter:
		return "submitter"
	case RoleReceiver:
		return "receiver"
	case RoleBillingProvider:
		return "billing_provider"
	case RolePayToProvider:
		return "pay_to_provider"
	case RoleSubscriber:
		return "subscriber"
	case RolePayer:
		return "payer"
	case RoleRenderingProvider:
		return "rendering_provider"
	case RoleServiceFacility:
		return "service_facility"
	}
	return "none"
}

// entityRoles maps NM1 entity identifier codes to roles. Codes outside
// this table leave the context unset and later dependent segments are
// dropped.
var entityRoles = map[string]Role{
	"41": RoleSubmitter,
	"40": RoleReceiver,
	"85": RoleBillingProvider,
	"87": RolePayToProvider,
	"IL": RoleSubscriber,
	"PR": RolePayer,
	"82": RoleRenderingProvider,
	"77": RoleServiceFacility,
}

// claimScoped reports whether an introduction of this role attaches to
// the open claim rather than the transaction-level bucket.
func (r Role) claimScoped() bool {
	return r == RolePayer || r == RoleRenderingProvider || r == RoleServiceFacility
}

// entityContext resolves which party a dependent segment (N3, N4, PER,
// DMG) belongs to. Attribution is strictly by most recent introduction:
// there is no identifier-based linking, and a second introduction of the
// same role before a dependent segment redirects that segment to the
// second record.
type entityContext struct {
	current Role

	// target is the most recently introduced record per role, which may
	// live in the transaction-level buckets or inside the open claim.
	target map[Role]*Party

	// pending holds an address begun by N3 and awaiting its N4.
	pending map[Role]*Address
}

func newEntityContext() *entityContext {
	return &entityContext{
		target:  make(map[Role]*Party),
		pending: make(map[Role]*Address),
	}
}

// introduce classifies an NM1 entity code and makes the given record the
// attribution target for subsequent dependent segments. Unrecognized
// codes clear the context.
func (c *entityContext) introduce(code string, record *Party) Role {
	role, ok := entityRoles[code]
	if !ok {
		c.current = RoleNone
		return RoleNone
	}
	c.current = role
	c.target[role] = record
	delete(c.pending, role)
	return role
}

// clearClaimScoped forgets attribution targets that live inside a
// claim. Called at a claim boundary: the sealed claim's parties are no
// longer reachable, and the new claim's must be reintroduced.
func (c *entityContext) clearClaimScoped() {
	for role := range c.target {
		if role.claimScoped() {
			delete(c.target, role)
			delete(c.pending, role)
		}
	}
	if c.current.claimScoped() {
		c.current = RoleNone
	}
}

// currentParty returns the record for the current entity, or nil when no
// qualifying introduction has been seen.
func (c *entityContext) currentParty() *Party {
	if c.current == RoleNone {
		return nil
	}
	return c.target[c.current]
}

// beginAddress records the street line from an N3 segment. The address
// attaches to the party only once N4 completes it.
func (c *entityContext) beginAddress(street string) {
	if c.current == RoleNone {
		return
	}
	c.pending[c.current] = &Address{Street: street}
}

// completeAddress finishes a pending address with N4 geographic data and
// attaches it to the current party. An N4 with no pending N3 is dropped.
func (c *entityContext) completeAddress(city, state, zip string) {
	if c.current == RoleNone {
		return
	}
	addr, ok := c.pending[c.current]
	if !ok {
		return
	}
	addr.City = city
	addr.State = state
	addr.Zip = zip
	if p := c.target[c.current]; p != nil {
		p.Address = addr
	}
	delete(c.pending, c.current)
}
