package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// PaymentType – immutable value object
// ---------------------------------------------------------------------------

// PaymentType classifies a payment ledger entry.
type PaymentType struct {
	value string
}

const (
	paymentFull                = "FULL"
	paymentPartial             = "PARTIAL"
	paymentAdvance             = "ADVANCE"
	paymentSettlement          = "SETTLEMENT"
	paymentDiscount            = "DISCOUNT"
	paymentInterestOnly        = "INTEREST_ONLY"
	paymentInterestOnlyPartial = "INTEREST_ONLY_PARTIAL"
)

var (
	PaymentTypeFull                = PaymentType{value: paymentFull}
	PaymentTypePartial             = PaymentType{value: paymentPartial}
	PaymentTypeAdvance             = PaymentType{value: paymentAdvance}
	PaymentTypeSettlement          = PaymentType{value: paymentSettlement}
	PaymentTypeDiscount            = PaymentType{value: paymentDiscount}
	PaymentTypeInterestOnly        = PaymentType{value: paymentInterestOnly}
	PaymentTypeInterestOnlyPartial = PaymentType{value: paymentInterestOnlyPartial}
)

var validPaymentTypes = map[string]PaymentType{
	paymentFull:                PaymentTypeFull,
	paymentPartial:             PaymentTypePartial,
	paymentAdvance:             PaymentTypeAdvance,
	paymentSettlement:          PaymentTypeSettlement,
	paymentDiscount:            PaymentTypeDiscount,
	paymentInterestOnly:        PaymentTypeInterestOnly,
	paymentInterestOnlyPartial: PaymentTypeInterestOnlyPartial,
}

// NewPaymentType creates a PaymentType from a raw string.
func NewPaymentType(s string) (PaymentType, error) {
	v, ok := validPaymentTypes[s]
	if !ok {
		return PaymentType{}, fmt.Errorf("invalid payment type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (t PaymentType) String() string { return t.value }

// IsZero returns true if the type has not been initialised.
func (t PaymentType) IsZero() bool { return t.value == "" }

// Equal returns true when both types carry the same value.
func (t PaymentType) Equal(other PaymentType) bool { return t.value == other.value }

// ReducesPrincipal reports whether payments of this type count towards the
// accumulated-paid figure of an installment. Interest-only entries record
// money movement without touching principal.
func (t PaymentType) ReducesPrincipal() bool {
	return t.value != paymentInterestOnly && t.value != paymentInterestOnlyPartial
}

// RequiresElevatedRole reports whether reversing this payment type is
// restricted to supervisors.
func (t PaymentType) RequiresElevatedRole() bool {
	return t.value == paymentAdvance
}

// ---------------------------------------------------------------------------
// Role – staff permission level for ledger mutations
// ---------------------------------------------------------------------------

// Role is the permission level of the staff member acting on the ledger.
type Role struct {
	value string
}

const (
	roleOperator   = "OPERATOR"
	roleSupervisor = "SUPERVISOR"
)

var (
	RoleOperator   = Role{value: roleOperator}
	RoleSupervisor = Role{value: roleSupervisor}
)

var validRoles = map[string]Role{
	roleOperator:   RoleOperator,
	roleSupervisor: RoleSupervisor,
}

// NewRole creates a Role from a raw string.
func NewRole(s string) (Role, error) {
	v, ok := validRoles[s]
	if !ok {
		return Role{}, fmt.Errorf("invalid role: %q", s)
	}
	return v, nil
}

// String returns the string representation of the role.
func (r Role) String() string { return r.value }

// IsZero returns true if the role has not been initialised.
func (r Role) IsZero() bool { return r.value == "" }

// Elevated reports whether the role may reverse role-gated payment types.
func (r Role) Elevated() bool { return r.value == roleSupervisor }

// Actor identifies the staff member performing a ledger operation.
type Actor struct {
	ID   string
	Role Role
}
