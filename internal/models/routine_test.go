package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRestSpecUnmarshalJSONString(t *testing.T) {
	var ex Exercise
	err := json.Unmarshal([]byte(`{"name":"Sentadilla","series":3,"repetitions":12,"rest":"90 sec"}`), &ex)
	require.NoError(t, err)
	assert.Equal(t, RestSpec("90 sec"), ex.Rest)
}

func TestRestSpecUnmarshalJSONNumber(t *testing.T) {
	var ex Exercise
	err := json.Unmarshal([]byte(`{"name":"Sentadilla","series":3,"repetitions":12,"rest":60}`), &ex)
	require.NoError(t, err)
	assert.Equal(t, RestSpec("60s"), ex.Rest)
}

func TestRestSpecUnmarshalJSONInvalid(t *testing.T) {
	var ex Exercise
	err := json.Unmarshal([]byte(`{"rest":{"seconds":60}}`), &ex)
	assert.Error(t, err)
}

func TestRestSpecUnmarshalBSONLegacyInt(t *testing.T) {
	doc, err := bson.Marshal(bson.M{"name": "Press banca", "rest": int32(45)})
	require.NoError(t, err)

	var ex Exercise
	require.NoError(t, bson.Unmarshal(doc, &ex))
	assert.Equal(t, RestSpec("45s"), ex.Rest)
}

func TestRestSpecUnmarshalBSONString(t *testing.T) {
	doc, err := bson.Marshal(bson.M{"name": "Press banca", "rest": "2 min"})
	require.NoError(t, err)

	var ex Exercise
	require.NoError(t, bson.Unmarshal(doc, &ex))
	assert.Equal(t, RestSpec("2 min"), ex.Rest)
}

func TestRecomputeTotals(t *testing.T) {
	day := RoutineDay{
		Name: "Piernas",
		Exercises: []Exercise{
			{Name: "Sentadilla", Series: 3, Repetitions: 12},
			{Name: "Prensa", Series: 4, Repetitions: 10},
			{Name: "Zancadas", Series: 3, Repetitions: 15},
		},
		NumExercises: 99,
		NumSets:      99,
	}

	day.RecomputeTotals()

	assert.Equal(t, 3, day.NumExercises)
	assert.Equal(t, 10, day.NumSets)
}

func TestRecomputeTotalsEmptyDay(t *testing.T) {
	day := RoutineDay{Name: "Descanso"}
	day.RecomputeTotals()

	assert.Equal(t, 0, day.NumExercises)
	assert.Equal(t, 0, day.NumSets)
}
