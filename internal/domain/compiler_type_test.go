package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompilerType_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want CompilerType
	}{
		{`"Scss"`, TypeScss},
		{`"scss"`, TypeScss},
		{`"AUTO"`, TypeAuto},
		{`""`, TypeAuto},
		{`null`, TypeAuto},
		{`0`, TypeAuto},
		{`1`, TypeScss},
		{`"Less"`, CompilerType("Less")},
	}
	for _, c := range cases {
		var got CompilerType
		require.NoError(t, json.Unmarshal([]byte(c.in), &got), c.in)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestCompilerType_UnmarshalJSON_BadNumber(t *testing.T) {
	var got CompilerType
	require.Error(t, json.Unmarshal([]byte(`7`), &got))
	require.Error(t, json.Unmarshal([]byte(`true`), &got))
}

func TestInferCompilerType(t *testing.T) {
	cases := map[string]CompilerType{
		"a.scss":           TypeScss,
		"styles/**/*.SASS": TypeScss,
		"src/*.scss":       TypeScss,
		"a.css":            TypeAuto,
		"noext":            TypeAuto,
		"styles/*.*":       TypeAuto,
		"x.scss.bak":       TypeAuto,
	}
	for in, want := range cases {
		require.Equal(t, want, InferCompilerType(in), in)
	}
}

func TestCompilerType_ZeroIsAuto(t *testing.T) {
	var zero CompilerType
	require.True(t, zero.IsAuto(), "零值应视为 Auto")
	require.Equal(t, "Auto", zero.String())
	require.False(t, TypeScss.IsAuto())
}
