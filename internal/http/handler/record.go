package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

// ListRecords returns every medical record joined with the patient name,
// newest visit first.
func ListRecords(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := svc.List(c.UserContext())
		if err != nil {
			return writeStorageError(c, "Error al obtener historias clínicas", err)
		}
		return c.JSON(records)
	}
}

// ListPatientRecords returns one patient's records, newest visit first.
func ListPatientRecords(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patientID, err := c.ParamsInt("patientId")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		records, err := svc.ListForPatient(c.UserContext(), patientID)
		if err != nil {
			return writeStorageError(c, "Error al obtener historias del paciente", err)
		}
		return c.JSON(records)
	}
}

// GetRecord fetches one record by path id.
func GetRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrRecordNotFound) {
				return writeError(c, fiber.StatusNotFound, "Historia clínica no encontrada")
			}
			return writeStorageError(c, "Error al obtener la historia clínica", err)
		}
		return c.JSON(rec)
	}
}

// CreateRecord validates and creates a record, answering 201 with the new id.
func CreateRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec model.MedicalRecord
		if err := c.BodyParser(&rec); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		id, err := svc.Create(c.UserContext(), &rec)
		if err != nil {
			if ve, ok := asValidation(err); ok {
				return writeError(c, fiber.StatusBadRequest, ve.Msg)
			}
			return writeStorageError(c, "Error al crear historia clínica", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// UpdateRecord replaces every field of the record row.
func UpdateRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		var rec model.MedicalRecord
		if err := c.BodyParser(&rec); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		if err := svc.Update(c.UserContext(), id, &rec); err != nil {
			if errors.Is(err, service.ErrRecordNotFound) {
				return writeError(c, fiber.StatusNotFound, "Historia clínica no encontrada")
			}
			if ve, ok := asValidation(err); ok {
				return writeError(c, fiber.StatusBadRequest, ve.Msg)
			}
			return writeStorageError(c, "Error al actualizar la historia clínica", err)
		}
		return c.JSON(fiber.Map{"message": "Historia clínica actualizada correctamente"})
	}
}

// DeleteRecord hard-deletes the record and its attachments.
func DeleteRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrRecordNotFound) {
				return writeError(c, fiber.StatusNotFound, "Historia clínica no encontrada")
			}
			return writeStorageError(c, "Error al eliminar la historia clínica", err)
		}
		return c.JSON(fiber.Map{"message": "Historia clínica eliminada correctamente"})
	}
}

// UploadRecordFile attaches a multipart file (field "file") to a record.
func UploadRecordFile(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No se subió ningún archivo")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No se pudo leer el archivo subido")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := svc.AttachFile(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrRecordNotFound) {
				return writeError(c, fiber.StatusNotFound, "Historia clínica no encontrada")
			}
			if ve, ok := asValidation(err); ok {
				return writeError(c, fiber.StatusBadRequest, ve.Msg)
			}
			return writeStorageError(c, "Error al guardar archivo en base de datos", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "Archivo subido correctamente",
			"filename": att.Filename,
		})
	}
}

// ListRecordFiles returns the attachment metadata rows for one record.
func ListRecordFiles(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Identificador inválido")
		}
		files, err := svc.ListFiles(c.UserContext(), id)
		if err != nil {
			return writeStorageError(c, "Error al obtener archivos", err)
		}
		return c.JSON(files)
	}
}

// DownloadFile streams a stored attachment by its generated name, offering
// the original filename for display.
func DownloadFile(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storedName, err := url.PathUnescape(c.Params("storedName"))
		if err != nil || storedName == "" {
			return writeError(c, fiber.StatusBadRequest, "Nombre de archivo inválido")
		}
		rc, meta, err := svc.OpenFile(c.UserContext(), storedName)
		if err != nil {
			if errors.Is(err, service.ErrFileNotFound) {
				return writeError(c, fiber.StatusNotFound, "Archivo no encontrado")
			}
			return writeStorageError(c, "Error al obtener archivo", err)
		}
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+meta.Filename+`"`)
		return c.SendStream(rc)
	}
}
