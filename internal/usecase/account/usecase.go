package account

import (
	"context"
	"strings"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

// Usecase is the profile surface. OTP issuance and delivery live outside
// this service; updating a contact detail simply clears its verified flag
// until the external verifier confirms it again.
type Usecase struct {
	users user.Repository
}

func NewUsecase(users user.Repository) *Usecase { return &Usecase{users: users} }

type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (u *Usecase) Profile(ctx context.Context, a *user.Account) *user.Account {
	return a
}

func (u *Usecase) Update(ctx context.Context, a *user.Account, in UpdateInput) (*user.Account, error) {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil && *in.Email != a.Email {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperr.Validationf("invalid email")
		}
		a.Email = email
		a.EmailVerified = false
	}
	if in.Phone != nil && *in.Phone != a.Phone {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, apperr.Validationf("invalid phone")
		}
		a.Phone = phone
		a.PhoneVerified = false
	}
	if err := u.users.Save(ctx, a); err != nil {
		return nil, apperr.Persistence(err)
	}
	return a, nil
}
