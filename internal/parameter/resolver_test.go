package parameter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func deployParams() []Parameter {
	return []Parameter{
		{
			Name:     "deploy_env",
			Type:     TypeChoice,
			Required: true,
			Choices:  []string{"dev", "staging", "prod"},
		},
		{
			Name:      "prod_confirmation",
			Type:      TypeBoolean,
			Required:  true,
			Condition: "deploy_env == 'prod'",
		},
	}
}

func TestResolveConditionalParameterMissingNamesCondition(t *testing.T) {
	params := deployParams()
	cli := map[string]string{"deploy_env": "prod"}

	_, err := Resolve(params, cli, false, DefaultEvaluator{}, nil)
	require.Error(t, err)

	var condErr *ConditionalParameterMissingError
	require.ErrorAs(t, err, &condErr)
	require.Equal(t, "prod_confirmation", condErr.Parameter)
	require.Equal(t, "deploy_env is set to prod", condErr.Condition)
}

func TestResolveSkipsInactiveConditionalParameter(t *testing.T) {
	params := deployParams()
	cli := map[string]string{"deploy_env": "dev"}

	result, err := Resolve(params, cli, false, DefaultEvaluator{}, nil)
	require.NoError(t, err)
	require.Equal(t, "dev", result["deploy_env"])
	_, ok := result["prod_confirmation"]
	require.False(t, ok)
}

func TestResolveAcceptsProvidedConditionalParameter(t *testing.T) {
	params := deployParams()
	cli := map[string]string{"deploy_env": "prod", "prod_confirmation": "true"}

	result, err := Resolve(params, cli, false, DefaultEvaluator{}, nil)
	require.NoError(t, err)
	require.Equal(t, true, result["prod_confirmation"])
}

func TestResolveTerminatesWithinMaxIterations(t *testing.T) {
	params := []Parameter{
		{Name: "a", Type: TypeBoolean, Condition: "b == 'x'"},
		{Name: "b", Type: TypeString, Default: "x"},
	}
	result, err := Resolve(params, map[string]string{}, false, DefaultEvaluator{}, nil)
	require.NoError(t, err)
	require.Equal(t, "x", result["b"])
}

func TestResolveOrderIndependentOverCLIPermutations(t *testing.T) {
	params := deployParams()

	r1, err1 := Resolve(params, map[string]string{"deploy_env": "prod", "prod_confirmation": "true"}, false, DefaultEvaluator{}, nil)
	r2, err2 := Resolve(params, map[string]string{"prod_confirmation": "true", "deploy_env": "prod"}, false, DefaultEvaluator{}, nil)

	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, r1, r2)
}
