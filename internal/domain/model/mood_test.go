package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMood_Valid(t *testing.T) {
	assert.True(t, MoodVeryHappy.Valid())
	assert.True(t, MoodVerySad.Valid())
	assert.False(t, Mood(0).Valid())
	assert.False(t, Mood(6).Valid())
}

func TestCreateMoodEntryRequest_Validate(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	req := CreateMoodEntryRequest{UserID: "user-1", Date: day, Mood: MoodHappy, EnergyLevel: 7}
	assert.NoError(t, req.Validate())

	req = CreateMoodEntryRequest{UserID: "user-1", Date: day, Mood: Mood(9), EnergyLevel: 7}
	assert.Error(t, req.Validate(), "out-of-range mood rejected")

	req = CreateMoodEntryRequest{UserID: "user-1", Date: day, Mood: MoodHappy, EnergyLevel: 11}
	assert.Error(t, req.Validate(), "out-of-range energy rejected")

	tooLong := 25.0
	req = CreateMoodEntryRequest{UserID: "user-1", Date: day, Mood: MoodHappy, EnergyLevel: 5, SleepHours: &tooLong}
	assert.Error(t, req.Validate(), "impossible sleep hours rejected")

	req = CreateMoodEntryRequest{UserID: "user-1", Mood: MoodHappy, EnergyLevel: 5}
	assert.Error(t, req.Validate(), "zero date rejected")
}
