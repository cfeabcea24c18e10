package importer

import (
	"fmt"

	"ZMKImport/internal/model"
	"ZMKImport/internal/sheet"
)

// TicketRecord 从表格行读取的过磅单原始值
type TicketRecord struct {
	Group         *model.GroupEntity
	Date          any
	Weight        any
	Status        any
	UPD           any
	UnloadingDate any
}

// LineRecord 明细列的原始值，可能为 nil
type LineRecord struct {
	ObjectWeight any
}

// Ticket 转换为数据库模型
func (r TicketRecord) Ticket() (*model.Ticket, error) {
	date, err := sheet.AsDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	unloading, err := sheet.AsDate(r.UnloadingDate)
	if err != nil {
		return nil, fmt.Errorf("unloading_date: %w", err)
	}
	if sheet.IsEmpty(r.Weight) {
		return nil, fmt.Errorf("weight: 不能为空")
	}
	weight, err := sheet.AsFloat(r.Weight)
	if err != nil {
		return nil, fmt.Errorf("weight: %w", err)
	}
	t := &model.Ticket{
		Date:          date,
		UnloadingDate: unloading,
		Weight:        weight,
		Status:        sheet.AsString(r.Status),
		UPD:           sheet.AsString(r.UPD),
	}
	if r.Group != nil {
		t.GroupEntityID = r.Group.ID
	}
	return t, nil
}

// Line 转换为明细模型；重量为空时 ok 为 false
func (r LineRecord) Line(ticketID uint64) (line *model.TicketLine, ok bool, err error) {
	if sheet.IsEmpty(r.ObjectWeight) {
		return nil, false, nil
	}
	w, err := sheet.AsFloat(r.ObjectWeight)
	if err != nil {
		return nil, false, fmt.Errorf("object_weight: %w", err)
	}
	return &model.TicketLine{TicketID: ticketID, ObjectWeight: w}, true, nil
}
