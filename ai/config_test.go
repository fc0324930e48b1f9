package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434", cfg.GeneratorHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "llama3.2", cfg.GeneratorModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ClassifierModel)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434", cfg.GeneratorHost)
	})

	t.Run("with shared host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080"))

		assert.Equal(t, "http://custom:8080", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080", cfg.GeneratorHost)
		assert.Equal(t, "http://custom:8080", cfg.ClassifierHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithGeneratorHost("http://generate:7070"),
			WithClassifierHost("http://classify:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://generate:7070", cfg.GeneratorHost)
		assert.Equal(t, "http://classify:9090/v1", cfg.ClassifierHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithGeneratorModel("mistral"),
			WithClassifierModel("gpt-4o-mini"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "mistral", cfg.GeneratorModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
	})

	t.Run("with custom timeout", func(t *testing.T) {
		cfg := NewConfig(WithTimeout(30 * time.Second))

		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name              string
		embeddingHost     string
		generatorHost     string
		expectedEmbedding string
		expectedGenerator string
	}{
		{
			name:              "already canonical",
			embeddingHost:     "http://localhost:11434/v1",
			generatorHost:     "http://localhost:11434",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedGenerator: "http://localhost:11434",
		},
		{
			name:              "embedding missing /v1",
			embeddingHost:     "http://localhost:11434",
			generatorHost:     "http://localhost:11434",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedGenerator: "http://localhost:11434",
		},
		{
			name:              "trailing slashes",
			embeddingHost:     "http://localhost:11434/",
			generatorHost:     "http://localhost:11434/",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedGenerator: "http://localhost:11434",
		},
		{
			name:              "generator has /v1 suffix",
			embeddingHost:     "http://embed:8080/v1",
			generatorHost:     "http://generate:7070/v1",
			expectedEmbedding: "http://embed:8080/v1",
			expectedGenerator: "http://generate:7070",
		},
		{
			name:              "empty hosts",
			embeddingHost:     "",
			generatorHost:     "",
			expectedEmbedding: "",
			expectedGenerator: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost: tt.embeddingHost,
				GeneratorHost: tt.generatorHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedEmbedding, cfg.EmbeddingHost)
			assert.Equal(t, tt.expectedGenerator, cfg.GeneratorHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			EmbeddingHost:   "http://localhost:11434",
			GeneratorHost:   "http://localhost:11434",
			ClassifierHost:  "http://localhost:11434",
			EmbeddingModel:  "nomic-embed-text",
			GeneratorModel:  "llama3.2",
			ClassifierModel: "qwen2.5:3b",
			Timeout:         time.Minute,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()

		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434", cfg.GeneratorHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingHost = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing generator host", func(t *testing.T) {
		cfg := valid()
		cfg.GeneratorHost = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GeneratorHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("missing generator model", func(t *testing.T) {
		cfg := valid()
		cfg.GeneratorModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GeneratorModel")
	})

	t.Run("missing classifier model", func(t *testing.T) {
		cfg := valid()
		cfg.ClassifierModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ClassifierModel")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Timeout = 0

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Timeout")
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	// Test that NewConfig produces a valid configuration
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	// Test that DefaultConfig produces a valid configuration
	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
