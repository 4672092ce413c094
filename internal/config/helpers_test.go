package config

import "health_monitor/internal/models"

func modelsContact(name, phone string) models.Contact {
	return models.Contact{Name: name, Phone: phone}
}
