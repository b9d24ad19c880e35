package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObservationHistory(t *testing.T) {
	entries := ParseObservationHistory("[2025-01-01T10:00:00Z] Iniciado: Técnico asignado[2025-01-02T09:00:00Z] Completado: Listo")

	require.Len(t, entries, 2)
	assert.Equal(t, "2025-01-01T10:00:00Z", entries[0].Timestamp)
	assert.Equal(t, "Iniciado", entries[0].Status)
	assert.Equal(t, "Técnico asignado", entries[0].Description)
	assert.Equal(t, "Completado", entries[1].Status)
	assert.Equal(t, "Listo", entries[1].Description)
	assert.True(t, entries[0].At.Before(entries[1].At))
}

func TestParseObservationHistory_NoEntries(t *testing.T) {
	assert.Nil(t, ParseObservationHistory("cambio de aceite sin novedades"))
	assert.Nil(t, ParseObservationHistory(""))
}

func TestParseObservationHistory_SortsChronologically(t *testing.T) {
	text := "[2025-03-02T08:00:00Z] Suspendido: falta repuesto\n" +
		"[2025-03-01T08:00:00Z] Iniciado: en taller\n" +
		"[2025-03-03 10:15:00] Reprogramado: nueva fecha"

	entries := ParseObservationHistory(text)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"Iniciado", "Suspendido", "Reprogramado"},
		[]string{entries[0].Status, entries[1].Status, entries[2].Status})
	assert.Equal(t, "falta repuesto", entries[1].Description)
}

func TestParseObservationHistory_IgnoresNonConformingText(t *testing.T) {
	text := "nota suelta [sin estado] [2025-05-01T12:00:00Z] Cancelado: ya no se requiere"

	entries := ParseObservationHistory(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Cancelado", entries[0].Status)
	assert.Equal(t, "ya no se requiere", entries[0].Description)
}

func TestParseObservationHistory_UnreadableTimestampsLast(t *testing.T) {
	text := "[ayer] Iniciado: a[2025-05-01T12:00:00Z] Completado: b"

	entries := ParseObservationHistory(text)
	require.Len(t, entries, 2)
	assert.Equal(t, "Completado", entries[0].Status)
	assert.Equal(t, "ayer", entries[1].Timestamp)
	assert.True(t, entries[1].At.IsZero())
}
