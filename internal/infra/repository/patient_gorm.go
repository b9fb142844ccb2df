package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	patientdomain "github.com/PampangaDental/clinic-scheduler/internal/domain/patient"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

type PatientGormRepository struct {
	db *gorm.DB
}

func NewPatientGormRepository(db *gorm.DB) *PatientGormRepository {
	return &PatientGormRepository{db: db}
}

func (r *PatientGormRepository) FindByPhone(
	ctx context.Context,
	phone string,
) (*models.Patient, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientGormRepository) FindByEmail(
	ctx context.Context,
	email string,
) (*models.Patient, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientGormRepository) Create(
	ctx context.Context,
	p *models.Patient,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Compile-time check
var _ patientdomain.Repository = (*PatientGormRepository)(nil)
