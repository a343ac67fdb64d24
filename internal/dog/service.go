package dog

import (
	"context"

	"github.com/google/uuid"

	"github.com/uxmariia/DOG-TRACKING-228/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) CreateDog(ctx context.Context, input Dog) (Dog, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO dogs (id, owner_id, name, breed, age_years, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.OwnerID, input.Name, input.Breed, input.AgeYears, input.Notes)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Dog{}, err
	}
	return input, nil
}

func (s *Service) GetDog(ctx context.Context, id, ownerID string) (Dog, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, name, breed, COALESCE(age_years,0), COALESCE(notes,''), created_at
		FROM dogs WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	var d Dog
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Breed, &d.AgeYears, &d.Notes, &d.CreatedAt); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) Dogs(ctx context.Context, ownerID string) ([]Dog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, name, breed, COALESCE(age_years,0), COALESCE(notes,''), created_at
		FROM dogs WHERE owner_id=$1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dogs []Dog
	for rows.Next() {
		var d Dog
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Breed, &d.AgeYears, &d.Notes, &d.CreatedAt); err != nil {
			return nil, err
		}
		dogs = append(dogs, d)
	}
	return dogs, nil
}

func (s *Service) DeleteDog(ctx context.Context, id, ownerID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM dogs WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return err
}
