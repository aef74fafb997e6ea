package seed

import (
	"errors"
	"log"

	"inmobiliaria-server/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run inserts a starting admin, an agent and a few available listings when
// the users table is empty. Safe to call on every boot.
func Run(db *gorm.DB) error {
	var existing models.User
	err := db.Where("rol = ?", models.RolAdmin).First(&existing).Error
	if err == nil {
		log.Println("Seed data already present. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	agentPassword, err := bcrypt.GenerateFromPassword([]byte("agente123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Nombre:     "Administrador",
		Correo:     "admin@inmobiliaria.com",
		Contrasena: string(adminPassword),
		Rol:        models.RolAdmin,
		IsActive:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	agent := models.User{
		Nombre:     "Agente Inmobiliario",
		Correo:     "agente@inmobiliaria.com",
		Contrasena: string(agentPassword),
		Rol:        models.RolAgente,
		IsActive:   true,
	}
	if err := db.Create(&agent).Error; err != nil {
		return err
	}

	properties := []models.Property{
		{
			Direccion:      "Av. San Martín 1250",
			Tipo:           models.TipoCasa,
			Precio:         185000,
			Estado:         models.EstadoDisponible,
			Descripcion:    "Casa de tres dormitorios con patio y cochera",
			Habitaciones:   3,
			Banos:          2,
			Garajes:        1,
			Ciudad:         "Río Cuarto",
			Disponibilidad: models.DisponibilidadAmbos,
			IDAgente:       agent.ID,
		},
		{
			Direccion:      "Bv. Roca 480, 3ºB",
			Tipo:           models.TipoApartamento,
			Precio:         95000,
			Estado:         models.EstadoDisponible,
			Descripcion:    "Departamento céntrico de dos ambientes",
			Habitaciones:   1,
			Banos:          1,
			Ciudad:         "Río Cuarto",
			Disponibilidad: models.DisponibilidadAlquiler,
			IDAgente:       agent.ID,
		},
		{
			Direccion:      "Ruta 8 km 601, lote 14",
			Tipo:           models.TipoTerreno,
			Precio:         42000,
			Estado:         models.EstadoDisponible,
			Descripcion:    "Terreno de 600 m2 en barrio abierto",
			Ciudad:         "Holmberg",
			Disponibilidad: models.DisponibilidadVenta,
			IDAgente:       agent.ID,
		},
	}
	if err := db.Create(&properties).Error; err != nil {
		return err
	}

	log.Println("Seed data created successfully.")
	return nil
}
