package protocol

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFormat(t *testing.T) {
	s := Sample{{Name: "CPU", Value: 23.4}, {Name: "MEM", Value: 812345}}
	assert.Equal(t, "{\"CPU\": 23.4, \"MEM\": 812345}\n", string(AppendRecord(nil, s)))
}

func TestEncodeEmptySample(t *testing.T) {
	assert.Equal(t, "{}\n", string(NewEncoder(8).Encode(Sample{})))
}

func TestEncodeKeepsOrderAndIsDeterministic(t *testing.T) {
	s := Sample{{Name: "MEM", Value: 1}, {Name: "CPU", Value: 2}, {Name: "DISK", Value: 3}}
	enc := NewEncoder(64)

	first := string(enc.Encode(s))
	second := string(enc.Encode(s))
	assert.Equal(t, first, second)
	assert.Equal(t, "{\"MEM\": 1, \"CPU\": 2, \"DISK\": 3}\n", first)
}

func TestEncoderReusesBuffer(t *testing.T) {
	s := Sample{{Name: "CPU", Value: 99.5}, {Name: "MEM", Value: 1048576}}
	enc := NewEncoder(256)

	first := enc.Encode(s)
	second := enc.Encode(Sample{{Name: "CPU", Value: 1}})
	assert.Same(t, &first[0], &second[0], "buffer should be reused")
	assert.Equal(t, "{\"CPU\": 1}\n", string(second), "previous content must be cleared")

	allocs := testing.AllocsPerRun(100, func() { enc.Encode(s) })
	assert.Zero(t, allocs)
}

func TestEncodeEscapesNames(t *testing.T) {
	s := Sample{{Name: "we\"ird\\name\n\x01", Value: 1.5}}
	got, err := Decode(string(AppendRecord(nil, s)))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestRoundTrip(t *testing.T) {
	samples := []Sample{
		{{Name: "CPU", Value: 0}},
		{{Name: "CPU", Value: 23.4}, {Name: "MEM", Value: 812345}},
		{{Name: "CPU", Value: 100}, {Name: "MEM", Value: 16777216}, {Name: "TEMP", Value: -12.75}},
		{{Name: "X", Value: math.MaxFloat32}, {Name: "Y", Value: 0.000001}},
		{{Name: "CPU", Value: 0.1}, {Name: "MEM", Value: 3.3333333}},
	}
	enc := NewEncoder(16)
	for _, s := range samples {
		line := string(enc.Encode(s))
		got, err := Decode(line[:len(line)-1])
		require.NoError(t, err, line)
		assert.Equal(t, s, got)
	}
}

func TestDecodePreservesWireOrder(t *testing.T) {
	got, err := Decode(`{"MEM": 2.0, "CPU": 1.0, "DISK": 3}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"MEM", "CPU", "DISK"}, got.Names())
}

func TestDecodeAcceptsAnyKeyAndEmptyObject(t *testing.T) {
	got, err := Decode(`{"whatever metric": -5e3}`)
	require.NoError(t, err)
	v, ok := got.Get("whatever metric")
	assert.True(t, ok)
	assert.Equal(t, float32(-5000), v)

	got, err = Decode(`{}`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeDuplicateKeyLastWins(t *testing.T) {
	got, err := Decode(`{"CPU": 1, "MEM": 2, "CPU": 3}`)
	require.NoError(t, err)
	assert.Equal(t, Sample{{Name: "CPU", Value: 3}, {Name: "MEM", Value: 2}}, got)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"not json", `{not json`, nil},
		{"truncated", `{"CPU": 1`, nil},
		{"array", `[1, 2]`, ErrNotObject},
		{"scalar", `42`, ErrNotObject},
		{"null", `null`, ErrNotObject},
		{"string value", `{"CPU": "high"}`, ErrNotNumber},
		{"bool value", `{"CPU": true}`, ErrNotNumber},
		{"null value", `{"CPU": null}`, ErrNotNumber},
		{"nested value", `{"CPU": {"a": 1}}`, ErrNotNumber},
		{"out of range", `{"CPU": 1e39}`, ErrOutOfRange},
		{"trailing data", `{"CPU": 1} {"MEM": 2}`, ErrTrailing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.line)
			require.Error(t, err)
			assert.Nil(t, got)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.line, de.Line)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestMalformedLineDoesNotAffectNextDecode(t *testing.T) {
	_, err := Decode(`{not json`)
	require.Error(t, err)

	got, err := Decode(`{"CPU": 1.0}`)
	require.NoError(t, err)
	assert.Equal(t, Sample{{Name: "CPU", Value: 1}}, got)
}

func TestSampleSetGet(t *testing.T) {
	var s Sample
	s = s.Set("CPU", 1)
	s = s.Set("MEM", 2)
	s = s.Set("CPU", 5)

	assert.Len(t, s, 2)
	v, ok := s.Get("CPU")
	assert.True(t, ok)
	assert.Equal(t, float32(5), v)
	_, ok = s.Get("DISK")
	assert.False(t, ok)
	assert.Equal(t, map[string]float32{"CPU": 5, "MEM": 2}, s.Map())
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"cpu":         KindCPU,
		"MEM":         KindMemory,
		"Memory":      KindMemory,
		"storage":     KindDisk,
		"NETWORK":     KindNetwork,
		"temp":        KindTemperature,
		"TEMPERATURE": KindTemperature,
	}
	for name, want := range tests {
		got, ok := ParseKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseKind("GPU")
	assert.False(t, ok)
	assert.Equal(t, "MEM", KindMemory.Token())
	assert.Equal(t, "UNKNOWN", KindUnknown.Token())
}
