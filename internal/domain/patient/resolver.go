// Package patient resolves a booking's contact fields to a canonical
// patient record so repeat visitors are recognized across bookings.
package patient

import (
	"context"
	"strings"

	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

// Repository is the narrow lookup surface the resolver needs. Find methods
// return (nil, nil) when no record matches.
type Repository interface {
	FindByPhone(ctx context.Context, phone string) (*models.Patient, error)
	FindByEmail(ctx context.Context, email string) (*models.Patient, error)
	Create(ctx context.Context, p *models.Patient) error
}

// Resolve matches by phone first, then email, then creates a new record.
// Matching is best-effort: existing records are reused as-is, never merged
// and never refreshed with the booking's contact details. All three fields
// empty resolves to no patient at all.
func Resolve(ctx context.Context, repo Repository, name, phone, email string) (*models.Patient, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	if phone != "" {
		p, err := repo.FindByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	if email != "" {
		p, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	if name == "" && phone == "" && email == "" {
		return nil, nil
	}

	p := &models.Patient{
		Name:  name,
		Phone: phone,
		Email: email,
	}
	if err := repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
