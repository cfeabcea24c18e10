package service

import (
	"context"
	"errors"
	"strings"

	"ZMKImport/internal/model"
	"ZMKImport/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrEmptyTitle ZMK 标题为空
var ErrEmptyTitle = errors.New("title is required")

// GroupService ZMK 目录与过磅单查询
type GroupService struct {
	repo   repository.GroupRepository
	logger *logrus.Logger
}

func NewGroupService(repo repository.GroupRepository, logger *logrus.Logger) *GroupService {
	return &GroupService{repo: repo, logger: logger}
}

// GroupView ZMK 列表项
type GroupView struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// TicketLineView 过磅单明细
type TicketLineView struct {
	ID           uint64  `json:"id"`
	ObjectWeight float64 `json:"object_weight"`
}

// TicketView 过磅单
type TicketView struct {
	ID            uint64           `json:"id"`
	Date          string           `json:"date"`
	UnloadingDate string           `json:"unloading_date"`
	Weight        float64          `json:"weight"`
	UPD           *string          `json:"upd"`
	Status        *string          `json:"status"`
	Items         []TicketLineView `json:"items"`
}

// TicketListResult 过磅单分页结果
type TicketListResult struct {
	Group    GroupView    `json:"zmk"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int64        `json:"total"`
	Items    []TicketView `json:"items"`
}

func (s *GroupService) ListGroups(ctx context.Context) ([]GroupView, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, GroupView{ID: g.ID, Title: g.Title})
	}
	return views, nil
}

// CreateGroup 新建 ZMK，标题去掉首尾空白后不能为空
func (s *GroupService) CreateGroup(ctx context.Context, title string) (*GroupView, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	g, err := s.repo.CreateGroup(ctx, title)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("title", g.Title).Info("ZMK已创建")
	return &GroupView{ID: g.ID, Title: g.Title}, nil
}

func (s *GroupService) ListTickets(ctx context.Context, groupID uint64, page, pageSize int) (*TicketListResult, error) {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	tickets, total, err := s.repo.ListTickets(ctx, groupID, page, pageSize)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	result := &TicketListResult{
		Group:    GroupView{ID: group.ID, Title: group.Title},
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    make([]TicketView, 0, len(tickets)),
	}
	for _, t := range tickets {
		result.Items = append(result.Items, toTicketView(t))
	}
	return result, nil
}

func toTicketView(t *model.Ticket) TicketView {
	v := TicketView{
		ID:            t.ID,
		Date:          t.Date.Format("2006-01-02"),
		UnloadingDate: t.UnloadingDate.Format("2006-01-02"),
		Weight:        t.Weight,
		UPD:           t.UPD,
		Status:        t.Status,
		Items:         make([]TicketLineView, 0, len(t.Lines)),
	}
	for _, l := range t.Lines {
		v.Items = append(v.Items, TicketLineView{ID: l.ID, ObjectWeight: l.ObjectWeight})
	}
	return v
}
