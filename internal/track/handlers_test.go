package track

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
)

func passthroughAuth(c *fiber.Ctx) error {
	c.Locals("user_id", "user-1")
	return c.Next()
}

func TestTrackHandlersCreateAndList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO tracks`).
		WithArgs(pgxmock.AnyArg(), "user-1", "dog-1", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/tracks"), NewService(mock, testRedis(t)), passthroughAuth)

	body, _ := json.Marshal(sampleTrack())
	req := httptest.NewRequest(http.MethodPost, "/tracks/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %d", err, resp.StatusCode)
	}

	var created Track
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Stats.DogDistanceM <= 0 {
		t.Fatalf("handler response missing computed stats")
	}
}

func TestTrackHandlersValidation(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/tracks"), NewService(nil, testRedis(t)), passthroughAuth)

	req := httptest.NewRequest(http.MethodPost, "/tracks/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing dog_id")
	}
}

func TestTrackHandlersSharedNotFound(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/tracks"), NewService(nil, testRedis(t)), passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/tracks/shared/MISSING1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found for unknown share code")
	}
}

func TestTrackHandlersExport(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	in := sampleTrack()
	trailJSON, _ := json.Marshal(in.TrailPoints)
	dogJSON, _ := json.Marshal(in.DogPoints)
	objectsJSON, _ := json.Marshal(in.Objects)
	statsJSON, _ := json.Marshal(scoring.ComputeStats(in.TrailPoints, in.DogPoints, in.Objects))

	mock.ExpectQuery(`SELECT id, owner_id, dog_id, date`).
		WithArgs("track-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "dog_id", "date", "trail_points", "dog_points", "objects", "stats", "imported_from", "created_at"}).
			AddRow("track-1", "user-1", "dog-1", time.Now(), trailJSON, dogJSON, objectsJSON, statsJSON, "", time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/tracks"), NewService(mock, testRedis(t)), passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/tracks/track-1/export", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("export status: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/gpx+xml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<name>Trail</name>") || !strings.Contains(string(body), "<name>Dog Path</name>") {
		t.Fatalf("export missing track segments")
	}
}
