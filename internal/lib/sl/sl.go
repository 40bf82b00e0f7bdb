// Package sl contiene funciones auxiliares para trabajar con el logger slog.
// Su objetivo es simplificar la construcción de campos estructurados,
// por ejemplo para registrar errores de forma uniforme.
package sl

import "log/slog"

// Err devuelve un slog.Attr con la clave "error" y el texto del error.
// Resulta cómodo para que el registro de errores sea homogéneo.
//
// Ejemplo:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
