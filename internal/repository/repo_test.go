package repository

import (
	"app/internal/sheets/sheetstest"
)

func init() {
	// No consistency delay against the in-memory document.
	sheetCreateDelay = 0
}

var (
	userHeaderRow     = []interface{}{"Fecha de Registro", "Email", "Nombre", "Imagen", "Premium", "País", "Contraseña", "Admin"}
	activityHeaderRow = []interface{}{"Fecha", "Email", "Bebé", "Tipo", "Detalles"}
)

// newDoc returns a document with the two sheets that are assumed to exist
// (only the family and community sheets are created lazily).
func newDoc() *sheetstest.Fake {
	f := sheetstest.New()
	f.Seed(userSheet, [][]interface{}{userHeaderRow})
	f.Seed(activitySheet, [][]interface{}{activityHeaderRow})
	return f
}
