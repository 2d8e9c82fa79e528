package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
)

func TestExportService_ExportGroups(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()
	env.createUser(t, model.RoleAdmin)
	owner := env.createUser(t, model.RoleUser)
	member := env.createUser(t, model.RoleUser)
	loner := env.createUser(t, model.RoleUser)
	gid := env.createGroup(t, owner, "alpha")
	env.join(t, owner, member, gid)

	_, err := env.svc.Group.Update(ctx, actorOf(owner), gid, &dto.UpdateGroupRequest{
		Proposal:      strPtr("p"),
		ProposalState: strPtr(model.ProposalSubmitted),
	})
	require.NoError(t, err)

	buf, filename, err := env.svc.Export.ExportGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, "分组情况_20231114.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"小组", "未组队学生"}, f.GetSheetList())

	rows, err := f.GetRows("小组")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "小组名称", rows[0][0])
	assert.Equal(t, "alpha", rows[1][0])
	assert.Equal(t, owner.Alias, rows[1][2])
	assert.Equal(t, owner.Email, rows[1][3])
	assert.Equal(t, member.Alias, rows[1][4])
	assert.Equal(t, "2", rows[1][5])
	assert.Equal(t, model.ProposalSubmitted, rows[1][6])
	assert.Equal(t, "-172800", rows[1][7], "提前两天提交")

	rows, err = f.GetRows("未组队学生")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"姓名", "邮箱"}, rows[0])
	assert.Equal(t, []string{loner.Alias, loner.Email}, rows[1])
}

func TestExportService_Empty(t *testing.T) {
	env := newTestEnv(t, defaultConfig())

	buf, _, err := env.svc.Export.ExportGroups(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("小组")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "只有表头")
}
