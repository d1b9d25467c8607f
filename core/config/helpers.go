package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetAllSettings returns the effective settings for display. Secrets are masked.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":              Global.App.Debug,
		"app_version":            Global.App.Version,
		"store_driver":           Global.Store.Driver,
		"db_driver":              Global.Database.Driver,
		"valkey_address":         Global.Database.ValkeyAddress,
		"ai_gemini_model":        Global.AI.GeminiModel,
		"ai_openai_model":        Global.AI.OpenAIModel,
		"ai_openai_search_model": Global.AI.OpenAISearchModel,
		"ai_request_timeout":     Global.AI.RequestTimeout.String(),
		"ai_cooldown":            Global.AI.Cooldown.String(),
		"cache_ttl":              Global.Cache.TTL.String(),
		"gemini_api_key":         MaskSecret(Global.APIKeys.Gemini),
	}
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
