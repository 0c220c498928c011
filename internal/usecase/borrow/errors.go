package borrow

import (
	"errors"

	"gorm.io/gorm"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
)

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, loanrequest.ErrNotFound) {
		return apperr.NotFound("loan request")
	}
	return err
}
