package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/campaign"
	"cultivate/internal/services/investment"
	"cultivate/internal/services/ledger"
	"cultivate/internal/services/revenue"
	"cultivate/internal/utils/pagination"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const maxThumbnailSize = 10 << 20

type CampaignHandler struct {
	campaigns    campaign.Service
	investments  investment.Service
	transactions ledger.Service
	revenues     revenue.Service
	log          *logrus.Logger
}

func NewCampaignHandler(
	campaigns campaign.Service,
	investments investment.Service,
	transactions ledger.Service,
	revenues revenue.Service,
	log *logrus.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaigns:    campaigns,
		investments:  investments,
		transactions: transactions,
		revenues:     revenues,
		log:          log,
	}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var input models.CreateCampaignInput
	if ok, err := bind(c, &input); !ok {
		return err
	}

	created, err := h.campaigns.Create(c.UserContext(), middleware.ActorFrom(c).ProfileID, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create campaign")
	}
	return response.Created(c, "Campaign created successfully", created)
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	found, err := h.campaigns.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	return response.Success(c, "Campaign retrieved successfully", found)
}

func (h *CampaignHandler) ListActive(c *fiber.Ctx) error {
	list, err := h.campaigns.ListActive(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaigns")
	}
	return response.Success(c, "Campaigns retrieved successfully", list)
}

func (h *CampaignHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.campaigns.ListByOwner(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaigns")
	}
	return response.Success(c, "Campaigns retrieved successfully", list)
}

// List is the paginated admin listing, filtered by ?status= and ?sector=.
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	list, total, err := h.campaigns.List(c.UserContext(), models.CampaignFilter{
		Status: models.CampaignStatus(c.Query("status")),
		Sector: c.Query("sector"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaigns")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *CampaignHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Status models.CampaignStatus `json:"status" validate:"required"`
	}
	if ok, err := bind(c, &input); !ok {
		return err
	}

	updated, err := h.campaigns.UpdateStatus(c.UserContext(), middleware.ActorFrom(c), id, input.Status)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update campaign")
	}
	return response.Success(c, "Campaign updated successfully", updated)
}

// UploadThumbnail expects a multipart form with an image in the "file" field.
func (h *CampaignHandler) UploadThumbnail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}
	if fh.Size > maxThumbnailSize {
		return response.BadRequest(c, "file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return response.BadRequest(c, "file could not be read")
	}
	defer f.Close()

	updated, err := h.campaigns.SetThumbnail(c.UserContext(), middleware.ActorFrom(c), id, fh.Filename, f)
	if err != nil {
		return respondError(c, h.log, err, "Failed to upload thumbnail")
	}
	return response.Success(c, "Thumbnail uploaded successfully", updated)
}

func (h *CampaignHandler) Investments(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	bids, err := h.investments.ListByCampaign(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch investments")
	}
	return response.Success(c, "Investments retrieved successfully", bids)
}

func (h *CampaignHandler) Transactions(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := paramID(c, "id"); !ok {
		return invalidID(c)
	}
	txs, err := h.transactions.ListByRelated(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txs)
}

func (h *CampaignHandler) Revenue(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	summary, err := h.revenues.CampaignRevenue(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch revenue")
	}
	return response.Success(c, "Revenue retrieved successfully", summary)
}
