package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 报表包含两个 Sheet：
//   - "小组"：每组一行，列出组长、成员、提案状态与逾期时长
//   - "未组队学生"：既未创建也未加入小组的学生
type ExportService interface {
	// ExportGroups 导出当前分组情况，返回文件内容与建议文件名
	ExportGroups(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	clock  Clock
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger, clock Clock) ExportService {
	return &exportService{repo: repo, logger: logger, clock: clock}
}

const (
	sheetGroups    = "小组"
	sheetUngrouped = "未组队学生"
)

func (s *exportService) ExportGroups(ctx context.Context) (*bytes.Buffer, string, error) {
	// 1. 查询小组及成员
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("查询小组失败", zap.Error(err))
		return nil, "", err
	}

	ownerIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		ownerIDs = append(ownerIDs, g.OwnerID)
	}
	owners, err := s.repo.User.ListByIDs(ctx, ownerIDs)
	if err != nil {
		s.logger.Error("查询组长失败", zap.Error(err))
		return nil, "", err
	}
	ownerMap := make(map[string]*model.User, len(owners))
	for i := range owners {
		ownerMap[owners[i].UserID] = &owners[i]
	}

	membersByGroup := make(map[string][]model.User, len(groups))
	for _, g := range groups {
		members, err := s.repo.User.ListByJoinedGroup(ctx, g.GroupID)
		if err != nil {
			s.logger.Error("查询小组成员失败", zap.String("group_id", g.GroupID), zap.Error(err))
			return nil, "", err
		}
		membersByGroup[g.GroupID] = members
	}

	// 2. 查询未组队学生
	ungrouped, _, err := s.repo.User.List(ctx, repository.UserListFilter{
		Role:      model.RoleUser,
		Ungrouped: true,
	})
	if err != nil {
		s.logger.Error("查询未组队学生失败", zap.Error(err))
		return nil, "", err
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetGroups)
	f.SetActiveSheet(idx)
	f.NewSheet(sheetUngrouped)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	groupHeaders := []string{"小组名称", "标题", "组长", "组长邮箱", "成员", "人数", "提案状态", "逾期（秒）", "创建时间"}
	writeHeader(f, sheetGroups, groupHeaders, headerStyle)
	f.SetColWidth(sheetGroups, "A", "B", 20)
	f.SetColWidth(sheetGroups, "C", "D", 24)
	f.SetColWidth(sheetGroups, "E", "E", 48)
	f.SetColWidth(sheetGroups, "I", "I", 20)

	for i, g := range groups {
		row := i + 2
		members := membersByGroup[g.GroupID]
		names := make([]string, 0, len(members))
		for j := range members {
			names = append(names, displayName(&members[j]))
		}

		ownerName, ownerEmail := "-", "-"
		if o := ownerMap[g.OwnerID]; o != nil {
			ownerName, ownerEmail = displayName(o), o.Email
		}
		late := "-"
		if g.ProposalLate != nil {
			late = fmt.Sprintf("%d", *g.ProposalLate)
		}

		values := []interface{}{
			g.Name,
			g.Title,
			ownerName,
			ownerEmail,
			joinNames(names),
			len(members) + 1,
			g.ProposalState,
			late,
			g.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			f.SetCellValue(sheetGroups, cell(colName(col), row), v)
		}
	}

	writeHeader(f, sheetUngrouped, []string{"姓名", "邮箱"}, headerStyle)
	f.SetColWidth(sheetUngrouped, "A", "B", 28)
	for i := range ungrouped {
		row := i + 2
		f.SetCellValue(sheetUngrouped, cell("A", row), displayName(&ungrouped[i]))
		f.SetCellValue(sheetUngrouped, cell("B", row), ungrouped[i].Email)
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("分组情况_%s.xlsx", s.clock().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), style)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "、"
		}
		out += n
	}
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
