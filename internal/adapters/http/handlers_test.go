package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/campusnav/internal/adapters/http"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/navigation"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// ---- Mock repositories ----

// memLocationRepo is an in-memory LocationRepository.
type memLocationRepo struct {
	mu     sync.Mutex
	locs   map[string]domain.NamedLocation
	nextID int
}

func newMemLocationRepo(seed ...domain.NamedLocation) *memLocationRepo {
	r := &memLocationRepo{locs: make(map[string]domain.NamedLocation)}
	for _, l := range seed {
		r.locs[l.ID] = l
	}
	return r
}

func (r *memLocationRepo) Create(ctx context.Context, loc *domain.NamedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	loc.ID = fmt.Sprintf("loc-%d", r.nextID)
	r.locs[loc.ID] = *loc
	return nil
}

func (r *memLocationRepo) Update(ctx context.Context, loc *domain.NamedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locs[loc.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	r.locs[loc.ID] = *loc
	return nil
}

func (r *memLocationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locs, id)
	return nil
}

func (r *memLocationRepo) GetByID(ctx context.Context, id string) (*domain.NamedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locs[id]; ok {
		return &l, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (r *memLocationRepo) GetByName(ctx context.Context, name string) (*domain.NamedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.locs {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, domain.ErrLocationNotFound
}

func (r *memLocationRepo) sorted() []domain.NamedLocation {
	out := make([]domain.NamedLocation, 0, len(r.locs))
	for _, l := range r.locs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memLocationRepo) List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (r *memLocationRepo) ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.NamedLocation
	for _, l := range r.sorted() {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLocationRepo) FindNearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	for i := range all {
		d := geospatial.Distance(p, all[i].Location)
		all[i].Distance = &d
	}
	sort.Slice(all, func(i, j int) bool { return *all[i].Distance < *all[j].Distance })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type mockPrefRepo struct {
	mu    sync.Mutex
	prefs map[string]domain.Preferences
}

func (m *mockPrefRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.prefs[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mockPrefRepo) Upsert(ctx context.Context, p *domain.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		m.prefs = make(map[string]domain.Preferences)
	}
	m.prefs[p.UserID] = *p
	return nil
}

type mockHistoryRepo struct {
	listByUserFn func(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error)
}

func (m *mockHistoryRepo) Insert(ctx context.Context, rec *domain.NavigationRecord) error {
	return nil
}

func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

// ---- Test helpers ----

var (
	library  = domain.NamedLocation{ID: "a", Name: "Library", Location: domain.GeoPoint{Lat: 45.7535, Lon: 126.6485}, Category: domain.CategoryLibrary}
	mainHall = domain.NamedLocation{ID: "b", Name: "Main Hall", Location: domain.GeoPoint{Lat: 45.7540, Lon: 126.6490}, Category: domain.CategoryBuilding}
	canteen  = domain.NamedLocation{ID: "c", Name: "Canteen", Location: domain.GeoPoint{Lat: 45.7530, Lon: 126.6470}, Category: domain.CategoryCanteen}
)

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(t *testing.T, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	t.Helper()
	locations := usecases.NewLocationService(newMemLocationRepo(library, mainHall, canteen), nil)
	prefs := usecases.NewPreferenceService(&mockPrefRepo{})
	nav, err := usecases.NewNavigationService(locations, prefs, nil, nil, navigation.DefaultOptions())
	if err != nil {
		t.Fatalf("NewNavigationService: %v", err)
	}
	d := &handler.Dependencies{
		Locations:   locations,
		Preferences: prefs,
		History:     usecases.NewHistoryService(&mockHistoryRepo{}),
		Navigation:  nav,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func jsonRequest(method, target string, v interface{}) *nethttp.Request {
	var buf bytes.Buffer
	if v != nil {
		_ = json.NewEncoder(&buf).Encode(v)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func do(t *testing.T, app *fiber.App, req *nethttp.Request, wantStatus int, out interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
	}
}

type apiError struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
}

// ---- Location handler tests ----

func TestListLocations_Pagination(t *testing.T) {
	app := setupApp(makeDeps(t))

	var result struct {
		Data       []domain.NamedLocation `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	req := httptest.NewRequest("GET", "/v1/locations?offset=1&limit=1", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %q", link)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 3 {
		t.Errorf("expected total 3, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 1 || result.Data[0].Name != "Library" {
		t.Errorf("expected [Library], got %+v", result.Data)
	}
}

func TestListLocations_ByCategory(t *testing.T) {
	app := setupApp(makeDeps(t))

	var locs []domain.NamedLocation
	do(t, app, httptest.NewRequest("GET", "/v1/locations?category=canteen", nil), 200, &locs)
	if len(locs) != 1 || locs[0].Name != "Canteen" {
		t.Errorf("expected [Canteen], got %+v", locs)
	}
}

func TestGetLocation_NotFound(t *testing.T) {
	app := setupApp(makeDeps(t))

	var apiErr apiError
	do(t, app, httptest.NewRequest("GET", "/v1/locations/missing", nil), 404, &apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestCreateLocation(t *testing.T) {
	app := setupApp(makeDeps(t))

	body := map[string]interface{}{"name": "  North Gate ", "lat": 45.7550, "lon": 126.6480, "category": "gate"}
	var created domain.NamedLocation
	do(t, app, jsonRequest("POST", "/v1/locations", body), 201, &created)
	if created.ID == "" || created.Name != "North Gate" {
		t.Errorf("unexpected location %+v", created)
	}

	// Names are unique.
	var apiErr apiError
	do(t, app, jsonRequest("POST", "/v1/locations", body), 409, &apiErr)
	if apiErr.Code != "conflict" {
		t.Errorf("expected conflict, got %s", apiErr.Code)
	}
}

func TestCreateLocation_Invalid(t *testing.T) {
	app := setupApp(makeDeps(t))

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty name", map[string]interface{}{"name": "", "lat": 45.0, "lon": 126.0}},
		{"latitude out of range", map[string]interface{}{"name": "X", "lat": 95.0, "lon": 126.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			do(t, app, jsonRequest("POST", "/v1/locations", tt.body), 400, nil)
		})
	}
}

func TestUpdateAndDeleteLocation(t *testing.T) {
	app := setupApp(makeDeps(t))

	body := map[string]interface{}{"name": "Old Canteen", "lat": canteen.Location.Lat, "lon": canteen.Location.Lon, "category": "canteen"}
	var updated domain.NamedLocation
	do(t, app, jsonRequest("PUT", "/v1/locations/c", body), 200, &updated)
	if updated.Name != "Old Canteen" {
		t.Errorf("expected renamed location, got %+v", updated)
	}

	do(t, app, httptest.NewRequest("DELETE", "/v1/locations/c", nil), 204, nil)
	do(t, app, httptest.NewRequest("GET", "/v1/locations/c", nil), 404, nil)
	do(t, app, httptest.NewRequest("DELETE", "/v1/locations/c", nil), 404, nil)
}

func TestNearestLocations(t *testing.T) {
	app := setupApp(makeDeps(t))

	var locs []domain.NamedLocation
	do(t, app, httptest.NewRequest("GET", "/v1/locations/nearest?lat=45.7539&lon=126.6489&limit=2", nil), 200, &locs)
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}
	if locs[0].Name != "Main Hall" {
		t.Errorf("expected Main Hall first, got %s", locs[0].Name)
	}

	do(t, app, httptest.NewRequest("GET", "/v1/locations/nearest", nil), 400, nil)
}

func TestDistance(t *testing.T) {
	app := setupApp(makeDeps(t))

	var plan domain.Plan
	do(t, app, httptest.NewRequest("GET", "/v1/locations/distance?from=Library&to=Main%20Hall", nil), 200, &plan)
	if plan.DistanceMeters < 60 || plan.DistanceMeters > 75 {
		t.Errorf("distance %.1f outside [60,75]", plan.DistanceMeters)
	}
	if plan.Direction != "northeast" {
		t.Errorf("expected northeast, got %s", plan.Direction)
	}

	do(t, app, httptest.NewRequest("GET", "/v1/locations/distance?from=Library&to=Nowhere", nil), 404, nil)
	do(t, app, httptest.NewRequest("GET", "/v1/locations/distance?from=Library", nil), 400, nil)
}

// ---- Session handler tests ----

type sessionView struct {
	ID       string          `json:"id"`
	Plan     *domain.Plan    `json:"plan"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

func TestSessionLifecycle(t *testing.T) {
	app := setupApp(makeDeps(t))

	var view sessionView
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Main Hall"}), 201, &view)
	if view.ID == "" || view.Snapshot.Status != domain.StatusPlanned {
		t.Fatalf("unexpected session %+v", view)
	}
	if view.Plan == nil || view.Plan.StepCount < 90 || view.Plan.StepCount > 105 {
		t.Errorf("unexpected plan %+v", view.Plan)
	}
	base := "/v1/sessions/" + view.ID

	// Positions before start are ignored.
	var progress navigation.Progress
	do(t, app, jsonRequest("POST", base+"/positions", map[string]float64{"lat": 45.7535, "lon": 126.6485}), 200, &progress)
	if progress.Outcome != navigation.OutcomeIgnored {
		t.Errorf("expected ignored, got %s", progress.Outcome)
	}

	do(t, app, jsonRequest("POST", base+"/start", nil), 200, &view)
	if view.Snapshot.Status != domain.StatusActive {
		t.Fatalf("expected active, got %s", view.Snapshot.Status)
	}
	// Starting twice is a conflict.
	do(t, app, jsonRequest("POST", base+"/start", nil), 409, nil)

	do(t, app, jsonRequest("POST", base+"/positions", map[string]float64{"lat": 45.7535, "lon": 126.6485}), 200, &progress)
	if progress.Outcome != navigation.OutcomeContinue || progress.Instruction == nil {
		t.Fatalf("expected instruction, got %+v", progress)
	}
	if !strings.HasPrefix(progress.Instruction.Text, "walk toward northeast for 68 meters") {
		t.Errorf("unexpected text %q", progress.Instruction.Text)
	}

	do(t, app, jsonRequest("POST", base+"/positions", map[string]float64{"lat": 45.75398, "lon": 126.64898}), 200, &progress)
	if progress.Outcome != navigation.OutcomeArrived {
		t.Fatalf("expected arrived, got %+v", progress)
	}

	var stopped struct {
		Stopped bool `json:"stopped"`
	}
	do(t, app, jsonRequest("POST", base+"/stop", nil), 200, &stopped)
	if stopped.Stopped {
		t.Error("stopping an arrived session should change nothing")
	}

	do(t, app, httptest.NewRequest("GET", base, nil), 200, &view)
	if view.Snapshot.Status != domain.StatusArrived {
		t.Errorf("expected arrived, got %s", view.Snapshot.Status)
	}

	do(t, app, httptest.NewRequest("DELETE", base, nil), 204, nil)
	do(t, app, httptest.NewRequest("GET", base, nil), 404, nil)
}

func TestCreateSession_UnknownLocation(t *testing.T) {
	app := setupApp(makeDeps(t))

	var apiErr apiError
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Moon"}), 404, &apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Library"}), 400, nil)
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library"}), 400, nil)
}

func TestPosition_Invalid(t *testing.T) {
	app := setupApp(makeDeps(t))

	var view sessionView
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Canteen"}), 201, &view)
	base := "/v1/sessions/" + view.ID
	do(t, app, jsonRequest("POST", base+"/start", nil), 200, nil)

	do(t, app, jsonRequest("POST", base+"/positions", map[string]float64{"lat": 45.7}), 400, nil)
	do(t, app, jsonRequest("POST", base+"/positions", map[string]float64{"lat": 145.7, "lon": 10}), 400, nil)
	do(t, app, jsonRequest("POST", "/v1/sessions/nope/positions", map[string]float64{"lat": 45.7, "lon": 126.6}), 404, nil)
}

func TestStopAndReplan(t *testing.T) {
	app := setupApp(makeDeps(t))

	var view sessionView
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Canteen"}), 201, &view)
	base := "/v1/sessions/" + view.ID

	var stopped struct {
		Stopped bool        `json:"stopped"`
		Session sessionView `json:"session"`
	}
	do(t, app, jsonRequest("POST", base+"/stop", nil), 200, &stopped)
	if !stopped.Stopped || stopped.Session.Snapshot.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %+v", stopped)
	}

	do(t, app, jsonRequest("PUT", base+"/plan", map[string]string{"from": "Canteen", "to": "Main Hall"}), 200, &view)
	if view.Snapshot.Status != domain.StatusPlanned || view.Plan.Destination.Name != "Main Hall" {
		t.Errorf("unexpected replanned session %+v", view)
	}
}

// ---- User handler tests ----

func TestPreferences(t *testing.T) {
	app := setupApp(makeDeps(t))

	var prefs domain.Preferences
	do(t, app, httptest.NewRequest("GET", "/v1/users/u1/preferences", nil), 200, &prefs)
	if prefs.StrideLengthMeters != 0.7 {
		t.Errorf("expected default stride 0.7, got %v", prefs.StrideLengthMeters)
	}

	body := map[string]interface{}{"stride_length_meters": 0.8, "voice_speed": 1.0, "voice_volume": 50}
	do(t, app, jsonRequest("PUT", "/v1/users/u1/preferences", body), 200, &prefs)
	if prefs.UserID != "u1" || prefs.StrideLengthMeters != 0.8 {
		t.Errorf("unexpected saved preferences %+v", prefs)
	}

	body["stride_length_meters"] = -1
	do(t, app, jsonRequest("PUT", "/v1/users/u1/preferences", body), 400, nil)
}

func TestSession_UsesUserStride(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	body := map[string]interface{}{"stride_length_meters": 1.4, "voice_speed": 1.0, "voice_volume": 50}
	do(t, app, jsonRequest("PUT", "/v1/users/u2/preferences", body), 200, nil)

	var view sessionView
	do(t, app, jsonRequest("POST", "/v1/sessions", map[string]string{"from": "Library", "to": "Main Hall", "user_id": "u2"}), 201, &view)
	if view.Plan.StepCount < 45 || view.Plan.StepCount > 52 {
		t.Errorf("expected about 49 steps with a 1.4 m stride, got %d", view.Plan.StepCount)
	}
}

func TestHistory(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.History = usecases.NewHistoryService(&mockHistoryRepo{
			listByUserFn: func(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
				return []domain.NavigationRecord{{ID: "h1", UserID: userID, Status: domain.StatusArrived}}, nil
			},
		})
	})
	app := setupApp(deps)

	var records []domain.NavigationRecord
	do(t, app, httptest.NewRequest("GET", "/v1/users/u1/history", nil), 200, &records)
	if len(records) != 1 || records[0].UserID != "u1" {
		t.Errorf("unexpected history %+v", records)
	}
}

// ---- Infrastructure tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(t))

	var body map[string]interface{}
	do(t, app, httptest.NewRequest("GET", "/v1/health", nil), 200, &body)
	if body["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", body["status"])
	}
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

func TestReady(t *testing.T) {
	app := setupApp(makeDeps(t, func(d *handler.Dependencies) {
		d.DB = mockPinger{}
		d.Cache = mockPinger{}
	}))
	do(t, app, httptest.NewRequest("GET", "/v1/ready", nil), 200, nil)

	app = setupApp(makeDeps(t, func(d *handler.Dependencies) {
		d.DB = mockPinger{err: fmt.Errorf("connection refused")}
	}))
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	do(t, app, httptest.NewRequest("GET", "/v1/ready", nil), 503, &body)
	if !strings.Contains(body.Checks["database"], "connection refused") {
		t.Errorf("unexpected checks %+v", body.Checks)
	}
}

func TestSecurityHeadersAndCaching(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/locations", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing request id")
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("unexpected Cache-Control %q", got)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest("GET", "/v1/locations", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestGraphQL(t *testing.T) {
	app := setupApp(makeDeps(t))

	query := map[string]interface{}{
		"query": `mutation { planSession(from: "Library", to: "Main Hall") { id status plan { direction step_count estimated_seconds } } }`,
	}
	var result struct {
		Data struct {
			PlanSession struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Plan   struct {
					Direction        string  `json:"direction"`
					StepCount        int     `json:"step_count"`
					EstimatedSeconds float64 `json:"estimated_seconds"`
				} `json:"plan"`
			} `json:"planSession"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	do(t, app, jsonRequest("POST", "/graphql", query), 200, &result)
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	ps := result.Data.PlanSession
	if ps.ID == "" || ps.Status != "planned" || ps.Plan.Direction != "northeast" {
		t.Errorf("unexpected session %+v", ps)
	}
	if ps.Plan.EstimatedSeconds <= 0 {
		t.Errorf("expected positive estimate, got %v", ps.Plan.EstimatedSeconds)
	}

	query = map[string]interface{}{
		"query": `query { nearest(lat: 45.7531, lon: 126.6471) { name } }`,
	}
	var nearest struct {
		Data struct {
			Nearest []struct {
				Name string `json:"name"`
			} `json:"nearest"`
		} `json:"data"`
	}
	do(t, app, jsonRequest("POST", "/graphql", query), 200, &nearest)
	if len(nearest.Data.Nearest) != 1 || nearest.Data.Nearest[0].Name != "Canteen" {
		t.Errorf("unexpected nearest %+v", nearest.Data.Nearest)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps(t))
	do(t, app, httptest.NewRequest("GET", "/ws", nil), fiber.StatusUpgradeRequired, nil)
}
