package auth

import "github.com/dmitrijs2005/accountkeeper/internal/server/models"

// Policy decides which account operations a caller may perform. It only
// looks at the supplied caller record and never fails; a nil caller is
// denied everything.
type Policy struct{}

// CanUpdate allows admins to update anyone and everyone else to update only
// the account carrying their own email.
func (Policy) CanUpdate(caller *models.Account, targetID, targetEmail string) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.Email == targetEmail
}

func (Policy) CanListAll(caller *models.Account) bool {
	return caller.IsAdmin()
}

// CanViewOne is admin-only, the same as listing.
func (Policy) CanViewOne(caller *models.Account) bool {
	return caller.IsAdmin()
}
