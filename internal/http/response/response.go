// Package response contiene los tipos y funciones auxiliares para formar
// respuestas JSON unificadas en los handlers HTTP: éxitos, errores y
// mensajes de validación en un único formato.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response describe la estructura estándar de la respuesta JSON.
// Status es "OK" o "Error"; Error lleva el texto del fallo cuando aplica;
// Data lleva los datos de la respuesta cuando aplica.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse estructura de error para la documentación Swagger.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK valor del estado para una respuesta exitosa.
	StatusOK = "OK"
	// StatusError valor del estado para una respuesta con error.
	StatusError = "Error"
)

// OKWithData devuelve una Response exitosa con los datos dados.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error devuelve una Response de error con el mensaje dado.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError forma una Response de error a partir de los fallos de
// validación, con un texto legible por violación unido por comas.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not be negative", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an invalid length", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
