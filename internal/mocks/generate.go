// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces in internal/core. The mocks are generated with
// go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	t.Cleanup(ctrl.Finish)
//	mockRepo := mocks.NewMockTaskRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(task, nil)
package mocks

// Generate mocks for all repository interfaces from internal/core in one file.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=core_repositories_mock.go github.com/neurozen/neurozen/internal/core UserRepository,CategoryRepository,TaskRepository,NoteRepository,MoodRepository,PomodoroRepository,QuoteRepository,ExerciseRepository,CacheRepository
