package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/repos"
	"github.com/teamup/teamup-server/services"
	"github.com/teamup/teamup-server/utils"
	"go.uber.org/fx"
)

var validate = validator.New()

var standardRoute = utils.JwtMiddlewareConfig{
	ReadFrom: "header",
	Subject:  "access",
	Scopes:   []string{"basic"},
}

type TeamController struct {
	fx.In

	Service  *services.TeamService
	UserRepo *repos.UserRepo
}

func RegisterTeamController(r *utils.Router, c TeamController) {
	teams := r.Group("/team")

	teams.Post("/add", utils.Protected(standardRoute), c.addTeam)
	teams.Post("/update", utils.Protected(standardRoute), c.updateTeam)
	teams.Post("/join", utils.Protected(standardRoute), c.joinTeam)
	teams.Post("/quit", utils.Protected(standardRoute), c.quitTeam)
	teams.Post("/delete", utils.Protected(standardRoute), c.deleteTeam)

	teams.Get("/get", utils.Protected(standardRoute), c.getTeam)
	teams.Get("/list", utils.Protected(standardRoute), c.listTeams)
	teams.Get("/list/my/create", utils.Protected(standardRoute), c.listMyCreatedTeams)
	teams.Get("/list/my/join", utils.Protected(standardRoute), c.listMyJoinedTeams)
}

func (r *TeamController) addTeam(c *fiber.Ctx) error {
	req := new(models.TeamAddRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	id, err := r.Service.CreateTeam(c.Context(), *req, c.Locals("user").(int64))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": id})
}

func (r *TeamController) updateTeam(c *fiber.Ctx) error {
	req := new(models.TeamUpdateRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	actingUser, err := r.actingUser(c)
	if err != nil {
		return err
	}

	if err := r.Service.UpdateTeam(c.Context(), *req, actingUser); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": true})
}

func (r *TeamController) joinTeam(c *fiber.Ctx) error {
	req := new(models.TeamJoinRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if err := r.Service.JoinTeam(c.Context(), *req, c.Locals("user").(int64)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": true})
}

func (r *TeamController) quitTeam(c *fiber.Ctx) error {
	req := new(models.TeamQuitRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if err := r.Service.QuitTeam(c.Context(), *req, c.Locals("user").(int64)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": true})
}

func (r *TeamController) deleteTeam(c *fiber.Ctx) error {
	req := new(models.DeleteRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if err := r.Service.DissolveTeam(c.Context(), req.Id, c.Locals("user").(int64)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": true})
}

func (r *TeamController) getTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	team, err := r.Service.GetTeam(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": team})
}

func (r *TeamController) listTeams(c *fiber.Ctx) error {
	query := new(models.TeamQuery)
	if err := c.QueryParser(query); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	actingUser, err := r.actingUser(c)
	if err != nil {
		return err
	}

	views, err := r.Service.ListTeams(c.Context(), *query, actingUser.Id, actingUser.IsAdmin())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": views})
}

func (r *TeamController) listMyCreatedTeams(c *fiber.Ctx) error {
	query := new(models.TeamQuery)
	if err := c.QueryParser(query); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	views, err := r.Service.ListMyCreatedTeams(c.Context(), *query, c.Locals("user").(int64))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": views})
}

func (r *TeamController) listMyJoinedTeams(c *fiber.Ctx) error {
	query := new(models.TeamQuery)
	if err := c.QueryParser(query); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	views, err := r.Service.ListMyJoinedTeams(c.Context(), *query, c.Locals("user").(int64))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": views})
}

func (r *TeamController) actingUser(c *fiber.Ctx) (*models.User, error) {
	user, err := r.UserRepo.Get(c.Context(), c.Locals("user").(int64))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NotFound("acting user not found")
	}

	return user, nil
}
