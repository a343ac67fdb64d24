package track

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/uxmariia/DOG-TRACKING-228/internal/db"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
	"github.com/uxmariia/DOG-TRACKING-228/internal/shared/code"
)

var ErrShareNotFound = errors.New("track: shared track not found")

const shareCodeLength = 8

type Service struct {
	db    db.Querier
	redis *redis.Client
}

func NewService(q db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: q, redis: redisClient}
}

// CreateTrack persists a finished session. Statistics are computed here,
// server-side, from the submitted buffers; client-supplied stats are ignored.
func (s *Service) CreateTrack(ctx context.Context, input Track) (Track, error) {
	input.ID = uuid.NewString()
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	input.Stats = scoring.ComputeStats(input.TrailPoints, input.DogPoints, input.Objects)

	trailJSON, _ := json.Marshal(input.TrailPoints)
	dogJSON, _ := json.Marshal(input.DogPoints)
	objectsJSON, _ := json.Marshal(input.Objects)
	statsJSON, _ := json.Marshal(input.Stats)

	row := s.db.QueryRow(ctx, `
		INSERT INTO tracks (id, owner_id, dog_id, date, trail_points, dog_points, objects, stats, imported_from)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, input.ID, input.OwnerID, input.DogID, input.Date, trailJSON, dogJSON, objectsJSON, statsJSON, input.ImportedFrom)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Track{}, err
	}
	return input, nil
}

func (s *Service) GetTrack(ctx context.Context, id, ownerID string) (Track, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, dog_id, date, trail_points, dog_points, objects, stats, COALESCE(imported_from,''), created_at
		FROM tracks WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	return scanTrack(row)
}

func (s *Service) Tracks(ctx context.Context, ownerID string) ([]Track, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, dog_id, date, trail_points, dog_points, objects, stats, COALESCE(imported_from,''), created_at
		FROM tracks WHERE owner_id=$1
		ORDER BY date DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		tr, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

func (s *Service) DeleteTrack(ctx context.Context, id, ownerID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tracks WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return err
}

// ShareTrack publishes a snapshot of the track under a fresh share code.
// Codes live in Redis: shared tracks are transient lookups, not rows.
func (s *Service) ShareTrack(ctx context.Context, id, ownerID string) (string, error) {
	tr, err := s.GetTrack(ctx, id, ownerID)
	if err != nil {
		return "", err
	}

	shared := SharedTrack{
		Track:     tr,
		SharedBy:  ownerID,
		SharedAt:  time.Now().UnixMilli(),
		ShareCode: code.Generate(shareCodeLength),
	}
	payload, err := json.Marshal(shared)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, shareKey(shared.ShareCode), payload, 0).Err(); err != nil {
		return "", err
	}
	return shared.ShareCode, nil
}

func (s *Service) SharedTrack(ctx context.Context, shareCode string) (SharedTrack, error) {
	payload, err := s.redis.Get(ctx, shareKey(shareCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SharedTrack{}, ErrShareNotFound
	}
	if err != nil {
		return SharedTrack{}, err
	}
	var shared SharedTrack
	if err := json.Unmarshal(payload, &shared); err != nil {
		return SharedTrack{}, err
	}
	return shared, nil
}

// ImportShared copies a shared snapshot into the caller's own tracks.
func (s *Service) ImportShared(ctx context.Context, shareCode, ownerID string) (Track, error) {
	shared, err := s.SharedTrack(ctx, shareCode)
	if err != nil {
		return Track{}, err
	}

	imported := shared.Track
	imported.OwnerID = ownerID
	imported.ImportedFrom = shareCode
	return s.CreateTrack(ctx, imported)
}

func shareKey(c string) string {
	return "shared:" + c
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (Track, error) {
	var tr Track
	var trailJSON, dogJSON, objectsJSON, statsJSON []byte
	if err := row.Scan(&tr.ID, &tr.OwnerID, &tr.DogID, &tr.Date, &trailJSON, &dogJSON, &objectsJSON, &statsJSON, &tr.ImportedFrom, &tr.CreatedAt); err != nil {
		return Track{}, err
	}
	_ = json.Unmarshal(trailJSON, &tr.TrailPoints)
	_ = json.Unmarshal(dogJSON, &tr.DogPoints)
	_ = json.Unmarshal(objectsJSON, &tr.Objects)
	_ = json.Unmarshal(statsJSON, &tr.Stats)
	return tr, nil
}
