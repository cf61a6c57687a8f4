package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	locationDTO "csmanager_backend/internals/features/catalog/locations/dto"
	locationModel "csmanager_backend/internals/features/catalog/locations/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

// Catalog rows: any authenticated user reads, admin or faculty writes.

type LocationTypeController struct {
	DB *gorm.DB
}

func NewLocationTypeController(db *gorm.DB) *LocationTypeController {
	return &LocationTypeController{DB: db}
}

var validate = validator.New()

func requireStaff(c *fiber.Ctx) (uint, error) {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return 0, err
	}
	if !userModel.Role(role).IsStaffLike() {
		return 0, helper.JsonError(c, fiber.StatusForbidden, "Only admins and faculty can modify the catalog")
	}
	return userID, nil
}

func (ctl *LocationTypeController) List(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	var rows []locationModel.LocationTypeModel
	if err := ctl.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load location types")
	}
	return helper.JsonList(c, "Location types loaded", locationDTO.FromLocationTypeModels(rows), nil)
}

func (ctl *LocationTypeController) Retrieve(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	var row locationModel.LocationTypeModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Location type not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load location type")
	}
	return helper.JsonOK(c, "Location type loaded", locationDTO.FromLocationTypeModel(row))
}

func (ctl *LocationTypeController) Create(c *fiber.Ctx) error {
	userID, err := requireStaff(c)
	if err != nil {
		return err
	}
	var req locationDTO.CreateLocationTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	row := req.ToModel(userID)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create location type")
	}
	return helper.JsonCreated(c, "Location type created", locationDTO.FromLocationTypeModel(row))
}

func (ctl *LocationTypeController) Update(c *fiber.Ctx) error {
	if _, err := requireStaff(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row locationModel.LocationTypeModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Location type not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load location type")
	}

	var req locationDTO.UpdateLocationTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update location type")
	}
	return helper.JsonUpdated(c, "Location type updated", locationDTO.FromLocationTypeModel(row))
}

func (ctl *LocationTypeController) Delete(c *fiber.Ctx) error {
	if _, err := requireStaff(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	res := ctl.DB.Delete(&locationModel.LocationTypeModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete location type")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Location type not found")
	}
	return helper.JsonDeleted(c)
}

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(db *gorm.DB) *LocationController {
	return &LocationController{DB: db}
}

func (ctl *LocationController) List(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	q := ctl.DB.Order("name ASC")
	if s := c.Query("location_type"); s != "" {
		q = q.Where("location_type_id = ?", s)
	}
	var rows []locationModel.LocationModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load locations")
	}
	return helper.JsonList(c, "Locations loaded", locationDTO.FromLocationModels(rows), nil)
}

func (ctl *LocationController) Retrieve(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	var row locationModel.LocationModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Location not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load location")
	}
	return helper.JsonOK(c, "Location loaded", locationDTO.FromLocationModel(row))
}

func (ctl *LocationController) Create(c *fiber.Ctx) error {
	userID, err := requireStaff(c)
	if err != nil {
		return err
	}
	var req locationDTO.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var cnt int64
	if err := ctl.DB.Model(&locationModel.LocationTypeModel{}).
		Where("id = ?", req.LocationTypeID).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check location type")
	}
	if cnt == 0 {
		return helper.JsonValidationError(c, map[string][]string{
			"location_type": {"Location type does not exist."},
		})
	}

	row := req.ToModel(userID)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create location")
	}
	return helper.JsonCreated(c, "Location created", locationDTO.FromLocationModel(row))
}

func (ctl *LocationController) Update(c *fiber.Ctx) error {
	if _, err := requireStaff(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row locationModel.LocationModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Location not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load location")
	}

	var req locationDTO.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	if req.Address != nil {
		row.Address = *req.Address
	}
	if req.LocationTypeID != nil {
		row.LocationTypeID = *req.LocationTypeID
	}
	if req.Notes != nil {
		row.Notes = *req.Notes
	}
	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update location")
	}
	return helper.JsonUpdated(c, "Location updated", locationDTO.FromLocationModel(row))
}

func (ctl *LocationController) Delete(c *fiber.Ctx) error {
	if _, err := requireStaff(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	res := ctl.DB.Delete(&locationModel.LocationModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete location")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Location not found")
	}
	return helper.JsonDeleted(c)
}
