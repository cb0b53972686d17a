package service

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService 就绪度报表导出服务接口
type ExportService interface {
	// ExportTeamReadiness 生成班组就绪度 xlsx 报表：
	// 汇总页一张 + 逐工人日明细
	ExportTeamReadiness(ctx context.Context, teamID string, from, to time.Time) (*excelize.File, error)
}

type exportService struct {
	stats  StatsService
	logger *zap.Logger
}

// NewExportService 创建导出服务实例
func NewExportService(stats StatsService, logger *zap.Logger) ExportService {
	return &exportService{stats: stats, logger: logger}
}

const exportSheet = "就绪度报表"

func (s *exportService) ExportTeamReadiness(ctx context.Context, teamID string, from, to time.Time) (*excelize.File, error) {
	from, to = dateOnly(from), dateOnly(to)

	// 区间汇总
	summary, err := s.stats.AggregateTeam(ctx, teamID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	_ = f.SetColWidth(exportSheet, "A", "B", 22)
	_ = f.SetColWidth(exportSheet, "C", "F", 14)

	// ── 汇总块 ──
	setCell := func(col, row int, v interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(exportSheet, cell, v)
	}

	setCell(1, 1, "班组")
	setCell(2, 1, summary.TeamName)
	setCell(1, 2, "统计区间")
	setCell(2, 2, summary.From+" ~ "+summary.To)

	summaryRows := [][2]interface{}{
		{"工人总数", summary.Stats.TotalWorkers},
		{"激活工人数", summary.Stats.ActiveWorkers},
		{"预期打卡数", summary.Stats.ExpectedCheckIns},
		{"已完成", summary.Stats.Completed},
		{"待打卡", summary.Stats.Pending},
		{"green", summary.Stats.Green},
		{"amber", summary.Stats.Amber},
		{"red", summary.Stats.Red},
		{"例外工人数", summary.Stats.WithExceptions},
		{"完成率(%)", summary.Stats.CompletionRate},
	}
	for i, kv := range summaryRows {
		setCell(1, 3+i, kv[0])
		setCell(2, 3+i, kv[1])
	}

	// ── 明细块：逐日逐工人状态 ──
	headerRow := 3 + len(summaryRows) + 1
	headers := []string{"日期", "工人", "状态", "及时性", "例外类型", "班次"}
	for i, h := range headers {
		setCell(i+1, headerRow, h)
	}

	row := headerRow + 1
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		daily, err := s.stats.AggregateTeam(ctx, teamID, day, day)
		if err != nil {
			return nil, err
		}
		for i := range daily.Workers {
			ws := &daily.Workers[i]
			setCell(1, row, ws.Date)
			setCell(2, row, ws.WorkerName)
			setCell(3, row, ws.Status)
			if ws.CheckIn != nil {
				setCell(4, row, ws.CheckIn.Timeliness)
				if ws.CheckIn.ShiftType != nil {
					setCell(6, row, *ws.CheckIn.ShiftType)
				}
			}
			if ws.Exception != nil {
				setCell(5, row, ws.Exception.Type)
			}
			row++
		}
	}

	s.logger.Info("就绪度报表已生成",
		zap.String("team_id", teamID),
		zap.String("from", summary.From),
		zap.String("to", summary.To),
		zap.Int("detail_rows", row-headerRow-1))
	return f, nil
}
