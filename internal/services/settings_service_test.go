package services

import (
	"errors"
	"testing"
)

type stubSettingsRepository struct {
	values  map[uint]map[string]string
	applies int
}

func newStubSettingsRepository() *stubSettingsRepository {
	return &stubSettingsRepository{values: map[uint]map[string]string{}}
}

func (stub *stubSettingsRepository) Get(userID uint, key string) (string, bool, error) {
	value, ok := stub.values[userID][key]
	return value, ok, nil
}

func (stub *stubSettingsRepository) ApplyChanges(userID uint, changes map[string]string) error {
	stub.applies++
	if stub.values[userID] == nil {
		stub.values[userID] = map[string]string{}
	}
	for key, value := range changes {
		if value == "" {
			delete(stub.values[userID], key)
			continue
		}
		stub.values[userID][key] = value
	}
	return nil
}

func TestSettingsAllListsEveryAllowedKey(t *testing.T) {
	t.Parallel()

	repo := newStubSettingsRepository()
	repo.values[1] = map[string]string{SettingTheme: "dark"}
	service := NewSettingsService(repo)

	values, err := service.All(1)
	if err != nil {
		t.Fatalf("list settings: %v", err)
	}
	if len(values) != len(AllowedSettingKeys()) {
		t.Fatalf("expected %d keys, got %d", len(AllowedSettingKeys()), len(values))
	}
	if values[SettingTheme] == nil || *values[SettingTheme] != "dark" {
		t.Fatalf("expected stored theme, got %v", values[SettingTheme])
	}
	if values[SettingGeminiAPIKey] != nil {
		t.Fatalf("expected missing key to be nil")
	}
}

func TestSettingsUpdateIgnoresUnknownKeysAndDeletesEmpty(t *testing.T) {
	t.Parallel()

	repo := newStubSettingsRepository()
	repo.values[1] = map[string]string{SettingLanguage: "it", SettingTheme: "dark"}
	service := NewSettingsService(repo)

	values, err := service.Update(1, map[string]any{
		SettingGeminiAPIKey: "  key-123  ",
		SettingLanguage:     nil,
		SettingTheme:        "",
		"secret_admin_flag": "true",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if values[SettingGeminiAPIKey] == nil || *values[SettingGeminiAPIKey] != "key-123" {
		t.Fatalf("expected trimmed api key, got %v", values[SettingGeminiAPIKey])
	}
	if values[SettingLanguage] != nil || values[SettingTheme] != nil {
		t.Fatalf("expected null and empty values to delete")
	}
	if _, stored := repo.values[1]["secret_admin_flag"]; stored {
		t.Fatal("expected unknown key to be ignored")
	}
}

func TestSettingsUpdateWithOnlyUnknownKeysWritesNothing(t *testing.T) {
	t.Parallel()

	repo := newStubSettingsRepository()
	service := NewSettingsService(repo)

	if _, err := service.Update(1, map[string]any{"unknown": "x"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if repo.applies != 0 {
		t.Fatalf("expected no write, got %d", repo.applies)
	}
}

func TestSettingsUpdateRejectsStructuredValues(t *testing.T) {
	t.Parallel()

	service := NewSettingsService(newStubSettingsRepository())
	_, err := service.Update(1, map[string]any{SettingTheme: map[string]any{"mode": "dark"}})
	if !errors.Is(err, ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid, got %v", err)
	}
}

func TestSettingsValueIsScopedToUser(t *testing.T) {
	t.Parallel()

	repo := newStubSettingsRepository()
	repo.values[1] = map[string]string{SettingGeminiAPIKey: "mine"}
	service := NewSettingsService(repo)

	value, err := service.Value(2, SettingGeminiAPIKey)
	if err != nil {
		t.Fatalf("read setting: %v", err)
	}
	if value != "" {
		t.Fatalf("expected other user's key to be invisible, got %q", value)
	}
}

func TestSettingsUpdateValidatesProviderPreference(t *testing.T) {
	t.Parallel()

	repo := newStubSettingsRepository()
	service := NewSettingsService(repo)

	if _, err := service.Update(1, map[string]any{SettingAIProvider: "openai"}); !errors.Is(err, ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid for unknown provider, got %v", err)
	}
	values, err := service.Update(1, map[string]any{SettingAIProvider: " Gemini "})
	if err != nil {
		t.Fatalf("update provider: %v", err)
	}
	if values[SettingAIProvider] == nil || *values[SettingAIProvider] != ProviderGemini {
		t.Fatalf("expected normalised provider gemini, got %v", values[SettingAIProvider])
	}
}
