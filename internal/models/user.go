// Package models contiene los modelos de dominio del marketplace,
// además de tipos auxiliares para recibir datos de peticiones JSON
// antes de validarlos y convertirlos a los tipos internos.
package models

import "time"

// User representa un usuario registrado del marketplace. La fila se crea
// de forma perezosa en el primer login exitoso, no en el registro.
type User struct {
	UUID         string  // Identificador único del usuario
	Email        string  // Correo electrónico
	Username     string  // Nombre de usuario (único)
	PasswordHash string  // Hash bcrypt de la contraseña
	Role         string  // Rol del usuario, admin o user
	Credits      int     // Saldo de créditos (contador desnormalizado del libro mayor)
	ReferralCode string  // Código de referido propio (único, generado al aprovisionar)
	ReferredBy   *string // UUID del usuario que lo refirió (nil si no aplica)
	MembershipID *int    // Plan de membresía activo referenciado (nil si no tiene)
	CreatedAt    time.Time
}

// DummyRegister recibe los datos del registro desde la petición JSON.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin recibe las credenciales de acceso. ReferralCode llega del
// parámetro ?ref= del storefront y sobrevive al viaje de redirección;
// se aplica una sola vez durante el aprovisionamiento del perfil.
type DummyLogin struct {
	Username     string `json:"username" validate:"required,alphanum"`
	Password     string `json:"password" validate:"required"`
	ReferralCode string `json:"referral_code,omitempty" validate:"omitempty,alphanum,len=6"`
}
