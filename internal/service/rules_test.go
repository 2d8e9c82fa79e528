package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Bigstool/group-management-system/internal/model"
)

func TestProposalTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		isAdmin bool
		want    bool
	}{
		{"组长提交", model.ProposalPending, model.ProposalSubmitted, false, true},
		{"组长重新提交", model.ProposalRejected, model.ProposalSubmitted, false, true},
		{"组长不能通过", model.ProposalSubmitted, model.ProposalApproved, false, false},
		{"组长不能驳回", model.ProposalSubmitted, model.ProposalRejected, false, false},
		{"管理员通过", model.ProposalSubmitted, model.ProposalApproved, true, true},
		{"管理员驳回", model.ProposalSubmitted, model.ProposalRejected, true, true},
		{"未提交不能直接通过", model.ProposalPending, model.ProposalApproved, true, false},
		{"通过为终态", model.ProposalApproved, model.ProposalSubmitted, true, false},
		{"不能退回待提交", model.ProposalSubmitted, model.ProposalPending, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, proposalTransitionAllowed(tt.from, tt.to, tt.isAdmin))
		})
	}
}

func TestHasRoomForMember(t *testing.T) {
	conf := model.SemesterConfig{GroupMemberNumber: [2]int{1, 3}}

	// 上限 3 含组长：已有 1 名成员时还能再加 1 人
	assert.True(t, hasRoomForMember(conf, 0))
	assert.True(t, hasRoomForMember(conf, 1))
	assert.False(t, hasRoomForMember(conf, 2))
}

func TestGroupingOpen_Boundary(t *testing.T) {
	ddl := time.Unix(1_700_000_000, 0).UTC()
	conf := model.SemesterConfig{SystemState: model.SystemState{GroupingDDL: ddl.Unix()}}

	assert.True(t, groupingOpen(conf, ddl.Add(-time.Second)))
	assert.False(t, groupingOpen(conf, ddl), "截止时刻本身视为已截止")
	assert.ErrorIs(t, checkGroupingOpen(conf, ddl.Add(time.Second)), ErrGroupingClosed)
}

func TestProposalLate_Sign(t *testing.T) {
	ddl := time.Unix(1_700_000_000, 0).UTC()
	conf := model.SemesterConfig{SystemState: model.SystemState{ProposalDDL: ddl.Unix()}}

	assert.Equal(t, int64(-60), proposalLate(conf, ddl.Add(-time.Minute)))
	assert.Equal(t, int64(3600), proposalLate(conf, ddl.Add(time.Hour)))
}

func TestNormalizeGroupName(t *testing.T) {
	assert.Equal(t, "g1", normalizeGroupName("  G1 "))
	assert.Equal(t, "", normalizeGroupName("   "))
}
