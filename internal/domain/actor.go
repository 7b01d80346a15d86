package domain

// RoleAdmin actors are globally scoped and may target any store.
const RoleAdmin = "admin"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID int64  `json:"store_id"`
}

// IsGlobal reports whether the actor may target any store.
func (a Actor) IsGlobal() bool {
	return a.Role == RoleAdmin
}

// ResolveStore is the single capability-resolution step run before any
// mutation. Global actors use the requested store as-is. Store-scoped
// actors get their own store substituted when the request names none,
// and a scope violation when it names another store.
func (a Actor) ResolveStore(requested int64) (int64, error) {
	if a.IsGlobal() {
		if requested <= 0 {
			return 0, Validationf("store id is required")
		}
		return requested, nil
	}
	if a.StoreID <= 0 {
		return 0, Scopef("actor %q has no store assigned", a.Name)
	}
	if requested <= 0 || requested == a.StoreID {
		return a.StoreID, nil
	}
	return 0, Scopef("actor %q is scoped to store %d and cannot target store %d", a.Name, a.StoreID, requested)
}
