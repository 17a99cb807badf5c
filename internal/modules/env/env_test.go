package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port int    `env:"ENV_TEST_PORT" envDefault:"123"`
	Name string `env:"ENV_TEST_NAME,required"`
}

func Test_Parse_Applies_Defaults(t *testing.T) {
	// Arrange
	t.Setenv("ENV_TEST_NAME", "tictactoe")

	// Act
	cfg, err := Parse[testConfig]()

	// Assert
	require.NoError(t, err)
	require.Equal(t, 123, cfg.Port)
	require.Equal(t, "tictactoe", cfg.Name)
}

func Test_Parse_Reports_Conversion_Error(t *testing.T) {
	// Arrange
	t.Setenv("ENV_TEST_NAME", "tictactoe")
	t.Setenv("ENV_TEST_PORT", "not-an-int")

	// Act
	_, err := Parse[testConfig]()

	// Assert
	require.ErrorContains(t, err, "parse env:")
}

func Test_Parse_Reports_Missing_Required_Key(t *testing.T) {
	// Act
	_, err := Parse[testConfig]()

	// Assert
	require.ErrorContains(t, err, "ENV_TEST_NAME")
}
