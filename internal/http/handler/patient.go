package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

// ListPatients returns every patient.
func ListPatients(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patients, err := svc.List(c.UserContext())
		if err != nil {
			return writeStorageError(c, "Error al obtener pacientes", err)
		}
		return c.JSON(patients)
	}
}

// GetPatient fetches one patient by path id.
func GetPatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrPatientNotFound) {
				return writeError(c, fiber.StatusNotFound, "Paciente no encontrado")
			}
			return writeStorageError(c, "Error al obtener el paciente", err)
		}
		return c.JSON(p)
	}
}

// CreatePatient validates and creates a patient, answering 201 with the new id.
func CreatePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Patient
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		id, err := svc.Create(c.UserContext(), &p)
		if err != nil {
			if ve, ok := asValidation(err); ok {
				return writeError(c, fiber.StatusBadRequest, ve.Msg)
			}
			return writeStorageError(c, "Error al crear paciente", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// UpdatePatient replaces every field of the patient row.
func UpdatePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		var p model.Patient
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := svc.Update(c.UserContext(), id, &p); err != nil {
			if errors.Is(err, service.ErrPatientNotFound) {
				return writeError(c, fiber.StatusNotFound, "Paciente no encontrado")
			}
			if ve, ok := asValidation(err); ok {
				return writeError(c, fiber.StatusBadRequest, ve.Msg)
			}
			return writeStorageError(c, "Error al actualizar paciente", err)
		}
		return c.JSON(fiber.Map{"message": "Paciente actualizado correctamente"})
	}
}

// DeletePatient hard-deletes the patient and everything hanging off it.
func DeletePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrPatientNotFound) {
				return writeError(c, fiber.StatusNotFound, "Paciente no encontrado")
			}
			return writeStorageError(c, "Error al eliminar paciente", err)
		}
		return c.JSON(fiber.Map{"message": "Paciente eliminado correctamente"})
	}
}
