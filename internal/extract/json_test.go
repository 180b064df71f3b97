package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a":"13,49","b":12.5,"c":null}`), &v))
	assert.Equal(t, Text("13,49"), v.A)
	assert.Equal(t, "12.5", v.B.String())
	assert.Equal(t, Text(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestRecords(t *testing.T) {
	text := []byte(`0:["$@1"]
1:[{"Date":"2024-03-01","Product":"Diesel","PumpPrice":"12,19","DateUnixEpoc":100},{"Product":"Blyfri 100","PumpPrice":14.2}]`)

	records := Records(text)
	require.Len(t, records, 2)
	assert.Contains(t, string(records[0]), `"Diesel"`)
	assert.Contains(t, string(records[1]), `"Blyfri 100"`)
}
