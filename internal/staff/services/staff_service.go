package services

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/medifront/frontdesk-backend/internal/staff/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type StaffService struct {
	DB *sql.DB
}

func NewStaffService(db *sql.DB) *StaffService {
	return &StaffService{DB: db}
}

// Authenticate checks a username/password pair against the staff table.
func (s *StaffService) Authenticate(username, password string) (*models.Staff, error) {
	var staff models.Staff
	err := s.DB.QueryRow(
		"SELECT id, full_name, username, password, role, created_at FROM staff WHERE username = ?",
		username,
	).Scan(&staff.ID, &staff.FullName, &staff.Username, &staff.Password, &staff.Role, &staff.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &staff, nil
}
