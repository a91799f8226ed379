package usecase

import (
	"errors"
	"fmt"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
)

func parseID(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrInvalidInput, name)
	}
	return id, nil
}

// normalizePage applies the listing defaults: page 1, 10 per page, at most 100.
func normalizePage(p *request.PaginatedRequest) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// hashPassword reports an over-long password against field instead of failing the request.
func hashPassword(field, password string) (string, error) {
	if len(password) > utils.MaxPasswordBytes {
		return "", newValidationError(field, fmt.Sprintf("Must be at most %d bytes", utils.MaxPasswordBytes))
	}

	hashed, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", newValidationError(field, fmt.Sprintf("Must be at most %d bytes", utils.MaxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}
