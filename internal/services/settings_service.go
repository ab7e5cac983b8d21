package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SettingGeminiAPIKey    = "gemini_api_key"
	SettingBlackboxAPIKey  = "blackbox_api_key"
	SettingAIProvider      = "ai_provider"
	SettingAdzunaAppID     = "adzuna_app_id"
	SettingAdzunaAPIKey    = "adzuna_api_key"
	SettingJSearchAPIKey   = "jsearch_api_key"
	SettingTheme           = "theme"
	SettingDefaultCurrency = "default_currency"
	SettingLanguage        = "language"
)

var allowedSettingKeys = []string{
	SettingGeminiAPIKey,
	SettingBlackboxAPIKey,
	SettingAIProvider,
	SettingAdzunaAppID,
	SettingAdzunaAPIKey,
	SettingJSearchAPIKey,
	SettingTheme,
	SettingDefaultCurrency,
	SettingLanguage,
}

var ErrSettingInvalid = errors.New("invalid setting value")

type SettingsRepository interface {
	Get(userID uint, key string) (string, bool, error)
	ApplyChanges(userID uint, changes map[string]string) error
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func AllowedSettingKeys() []string {
	keys := make([]string, len(allowedSettingKeys))
	copy(keys, allowedSettingKeys)
	return keys
}

func isAllowedSettingKey(key string) bool {
	for _, allowed := range allowedSettingKeys {
		if key == allowed {
			return true
		}
	}
	return false
}

// All returns every allowed key; keys without a stored value map to nil.
func (service *SettingsService) All(userID uint) (map[string]*string, error) {
	values := make(map[string]*string, len(allowedSettingKeys))
	for _, key := range allowedSettingKeys {
		value, found, err := service.settings.Get(userID, key)
		if err != nil {
			return nil, err
		}
		if found {
			stored := value
			values[key] = &stored
		} else {
			values[key] = nil
		}
	}
	return values, nil
}

// Value returns the stored value or "" when the key is not set.
func (service *SettingsService) Value(userID uint, key string) (string, error) {
	value, _, err := service.settings.Get(userID, key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Update stores the allowed keys of changes. Unknown keys are ignored; null or
// an empty string deletes the stored value.
func (service *SettingsService) Update(userID uint, changes map[string]any) (map[string]*string, error) {
	normalized := make(map[string]string)
	for key, raw := range changes {
		if !isAllowedSettingKey(key) {
			continue
		}
		value, err := settingValueString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSettingInvalid, key)
		}
		if key == SettingAIProvider {
			value = strings.ToLower(value)
			if !isValidProviderPreference(value) {
				return nil, fmt.Errorf("%w: ai_provider must be auto, gemini or blackbox", ErrSettingInvalid)
			}
		}
		normalized[key] = value
	}
	if len(normalized) > 0 {
		if err := service.settings.ApplyChanges(userID, normalized); err != nil {
			return nil, err
		}
	}
	return service.All(userID)
}

func settingValueString(raw any) (string, error) {
	switch value := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(value), nil
	case bool:
		return strconv.FormatBool(value), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	default:
		return "", ErrSettingInvalid
	}
}
