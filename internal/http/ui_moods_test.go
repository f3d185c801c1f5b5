package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	authmocks "github.com/neurozen/neurozen/internal/mocks/auth"
)

type fakeMoodService struct {
	entry     *model.MoodEntry
	updated   *model.UpdateMoodEntryRequest
	updatedID string
	getErr    error
	updateErr error
}

func (f *fakeMoodService) Log(_ context.Context, req *model.CreateMoodEntryRequest) (*model.MoodEntry, error) {
	return &model.MoodEntry{ID: "mood-1", Mood: req.Mood}, nil
}

func (f *fakeMoodService) GetByID(_ context.Context, _, id string) (*model.MoodEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entry, nil
}

func (f *fakeMoodService) Today(context.Context, string) (*model.MoodEntry, error) {
	return nil, data.ErrMoodEntryNotFound
}

func (f *fakeMoodService) History(context.Context, string, int) ([]*model.MoodEntry, error) {
	return nil, nil
}

func (f *fakeMoodService) Update(_ context.Context, _, id string, req model.UpdateMoodEntryRequest) (*model.MoodEntry, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedID = id
	f.updated = &req
	return f.entry, nil
}

func (f *fakeMoodService) Delete(context.Context, string, string) (bool, error) {
	return true, nil
}

func TestUIMoods_UpdateRedirects(t *testing.T) {
	svc := &fakeMoodService{entry: &model.MoodEntry{ID: "mood-3"}}
	h := &UIHandlers{MoodSvc: svc, Flashes: authmocks.NewMemoryFlashStore()}

	form := url.Values{
		"mood":         {"4"},
		"energy_level": {"7"},
		"sleep_hours":  {"6.5"},
		"activities":   {"walk"},
		"notes":        {"better today"},
	}
	r := newAuthedFormRequest("/moods/mood-3", form)
	r.SetPathValue("id", "mood-3")
	rr := httptest.NewRecorder()
	h.MoodUpdate(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/moods", rr.Header().Get("Location"))

	require.NotNil(t, svc.updated)
	assert.Equal(t, "mood-3", svc.updatedID)
	assert.Equal(t, model.MoodSad, *svc.updated.Mood)
	assert.Equal(t, 7, *svc.updated.EnergyLevel)
	require.NotNil(t, svc.updated.SleepHours)
	assert.InDelta(t, 6.5, *svc.updated.SleepHours, 0.001)
	assert.Equal(t, "better today", *svc.updated.Notes)
}

func TestUIMoods_EditRendersPrefilledForm(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	sleep := 7.5
	h.MoodSvc = &fakeMoodService{entry: &model.MoodEntry{
		ID:          "mood-9",
		Mood:        model.MoodNeutral,
		EnergyLevel: 5,
		SleepHours:  &sleep,
		Activities:  "yoga",
		Notes:       "slow morning",
	}}

	r := newAuthedRequest(http.MethodGet, "/moods/mood-9/edit")
	r.SetPathValue("id", "mood-9")
	rr := httptest.NewRecorder()
	h.MoodEdit(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, ContainsAll(body, []string{
		`action="/moods/mood-9"`,
		`value="yoga"`,
		"slow morning",
	}), "got: %s", body)
}

func TestUIMoods_EditUnknownEntryRenders404(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	h.MoodSvc = &fakeMoodService{getErr: data.ErrMoodEntryNotFound}

	r := newAuthedRequest(http.MethodGet, "/moods/ghost/edit")
	r.SetPathValue("id", "ghost")
	rr := httptest.NewRecorder()
	h.MoodEdit(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUIMoods_UpdateUnknownEntryRenders404(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	h.MoodSvc = &fakeMoodService{updateErr: data.ErrMoodEntryNotFound}

	r := newAuthedFormRequest("/moods/ghost", url.Values{"mood": {"3"}})
	r.SetPathValue("id", "ghost")
	rr := httptest.NewRecorder()
	h.MoodUpdate(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
