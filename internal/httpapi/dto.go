package httpapi

import (
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/rules"
	"github.com/jordanhale/timeloom/internal/scheduler"
	"github.com/jordanhale/timeloom/internal/service"
)

const dateLayout = "2006-01-02"

type blockDTO struct {
	ID        string    `json:"id,omitempty"`
	TaskType  string    `json:"task_type"`
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	ActualMin *int      `json:"actual_min,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

func toBlockDTO(b *domain.TimeBlock) blockDTO {
	return blockDTO{
		ID:        b.ID,
		TaskType:  string(b.TaskType),
		TaskID:    b.TaskID,
		TaskName:  b.TaskName,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		ActualMin: b.ActualMin,
		Notes:     b.Notes,
	}
}

type unmetDTO struct {
	UnitID     string    `json:"unit_id"`
	Name       string    `json:"name"`
	SourceType string    `json:"source_type"`
	Deadline   time.Time `json:"deadline"`
	MissingMin int       `json:"missing_min"`
}

func toUnmetDTO(u scheduler.Unmet) unmetDTO {
	return unmetDTO{
		UnitID:     u.UnitID,
		Name:       u.Name,
		SourceType: string(u.SourceType),
		Deadline:   u.Deadline,
		MissingMin: u.MissingMin,
	}
}

type generateResponse struct {
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Blocks    []blockDTO `json:"blocks"`
	Unmet     []unmetDTO `json:"unmet"`
	TotalMin  int        `json:"total_min"`
	Committed bool       `json:"committed"`
}

func toGenerateResponse(r *service.GenerateResult) generateResponse {
	resp := generateResponse{
		Start:     r.Start.Format(dateLayout),
		End:       r.End.Format(dateLayout),
		Blocks:    []blockDTO{},
		Unmet:     []unmetDTO{},
		TotalMin:  r.TotalMin,
		Committed: r.Committed,
	}
	for _, b := range r.Blocks {
		resp.Blocks = append(resp.Blocks, toBlockDTO(b))
	}
	for _, u := range r.Unmet {
		resp.Unmet = append(resp.Unmet, toUnmetDTO(u))
	}
	return resp
}

type daySummaryDTO struct {
	Date         string         `json:"date"`
	ScheduledMin int            `json:"scheduled_min"`
	ByType       map[string]int `json:"by_type"`
	Blocks       []blockDTO     `json:"blocks"`
}

type summaryResponse struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	AvailableMin int             `json:"available_min"`
	ScheduledMin int             `json:"scheduled_min"`
	MeetingMin   int             `json:"meeting_min"`
	FreeMin      int             `json:"free_min"`
	ByType       map[string]int  `json:"by_type"`
	ByStatus     map[string]int  `json:"by_status"`
	Days         []daySummaryDTO `json:"days"`
}

func toSummaryResponse(s *service.ScheduleSummary) summaryResponse {
	resp := summaryResponse{
		Start:        s.Start.Format(dateLayout),
		End:          s.End.Format(dateLayout),
		AvailableMin: s.AvailableMin,
		ScheduledMin: s.ScheduledMin,
		MeetingMin:   s.MeetingMin,
		FreeMin:      s.FreeMin,
		ByType:       map[string]int{},
		ByStatus:     map[string]int{},
		Days:         []daySummaryDTO{},
	}
	for k, v := range s.ByType {
		resp.ByType[string(k)] = v
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for _, d := range s.Days {
		dto := daySummaryDTO{
			Date:         d.Date.Format(dateLayout),
			ScheduledMin: d.ScheduledMin,
			ByType:       map[string]int{},
			Blocks:       []blockDTO{},
		}
		for k, v := range d.ByType {
			dto.ByType[string(k)] = v
		}
		for _, b := range d.Blocks {
			dto.Blocks = append(dto.Blocks, toBlockDTO(b))
		}
		resp.Days = append(resp.Days, dto)
	}
	return resp
}

type conditionDTO struct {
	Kind      string `json:"kind"`
	TaskType  string `json:"task_type,omitempty"`
	Substring string `json:"substring,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Weekdays  []int  `json:"weekdays,omitempty"` // 0=Monday..6=Sunday
}

type actionDTO struct {
	Kind     string `json:"kind"`
	Start    string `json:"start,omitempty"` // HH:MM
	End      string `json:"end,omitempty"`
	Delta    int    `json:"delta,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD
	LimitMin int    `json:"limit_min,omitempty"`
}

type ruleDTO struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Conditions  []conditionDTO `json:"conditions"`
	Actions     []actionDTO    `json:"actions"`
	Priority    int            `json:"priority"`
	IsActive    bool           `json:"is_active"`
}

func toRuleDTO(r *domain.Rule) ruleDTO {
	dto := ruleDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Conditions:  []conditionDTO{},
		Actions:     []actionDTO{},
		Priority:    r.Priority,
		IsActive:    r.IsActive,
	}
	for _, c := range r.Conditions {
		cd := conditionDTO{
			Kind:      string(c.Kind),
			TaskType:  string(c.TaskType),
			Substring: c.Substring,
			Priority:  string(c.Priority),
		}
		for _, d := range c.Weekdays {
			cd.Weekdays = append(cd.Weekdays, (int(d)+6)%7)
		}
		dto.Conditions = append(dto.Conditions, cd)
	}
	for _, a := range r.Actions {
		ad := actionDTO{
			Kind:     string(a.Kind),
			Delta:    a.Delta,
			LimitMin: a.LimitMin,
		}
		if a.Kind == domain.ActionRestrictWindow || a.Kind == domain.ActionBlockWindow {
			ad.Start = a.Window.Start.String()
			ad.End = a.Window.End.String()
		}
		if !a.Date.IsZero() {
			ad.Date = a.Date.Format(dateLayout)
		}
		dto.Actions = append(dto.Actions, ad)
	}
	return dto
}

func fromRuleDTO(dto ruleDTO) (*domain.Rule, error) {
	r := &domain.Rule{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Priority:    dto.Priority,
		IsActive:    dto.IsActive,
	}
	for _, cd := range dto.Conditions {
		c := domain.Condition{
			Kind:      domain.ConditionKind(cd.Kind),
			TaskType:  domain.SourceType(cd.TaskType),
			Substring: cd.Substring,
			Priority:  domain.Priority(cd.Priority),
		}
		for _, v := range cd.Weekdays {
			c.Weekdays = append(c.Weekdays, time.Weekday((v+1)%7))
		}
		r.Conditions = append(r.Conditions, c)
	}
	for _, ad := range dto.Actions {
		a := domain.Action{
			Kind:     domain.ActionKind(ad.Kind),
			Delta:    ad.Delta,
			LimitMin: ad.LimitMin,
		}
		if ad.Start != "" || ad.End != "" {
			start, err := domain.ParseClock(ad.Start)
			if err != nil {
				return nil, err
			}
			end, err := domain.ParseClock(ad.End)
			if err != nil {
				return nil, err
			}
			a.Window = domain.Window{Start: start, End: end}
		}
		if ad.Date != "" {
			date, err := time.Parse(dateLayout, ad.Date)
			if err != nil {
				return nil, err
			}
			a.Date = date
		}
		r.Actions = append(r.Actions, a)
	}
	return r, nil
}

type templateDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toTemplateDTO(t rules.Template) templateDTO {
	return templateDTO{Key: t.Key, Name: t.Name, Description: t.Description}
}
