package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/dto"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/schedule"
)

func newRecurringTestService(tr *testRepos) RecurringService {
	return NewRecurringService(tr.repo, nil, zap.NewNop())
}

func seedTemplate(t *testing.T, tr *testRepos, name string, dayOfWeek, maxPersonnel int, active bool) *model.RecurringTraining {
	t.Helper()
	template := &model.RecurringTraining{
		Name:         name,
		DayOfWeek:    dayOfWeek,
		Time:         "19:00",
		Location:     "训练场 A",
		MaxPersonnel: maxPersonnel,
		IsActive:     active,
	}
	if err := tr.recurring.Create(context.Background(), template); err != nil {
		t.Fatalf("预置模板失败: %v", err)
	}
	return template
}

func seedMission(t *testing.T, tr *testRepos, date string, status model.EventStatus) {
	t.Helper()
	mission := &model.Mission{
		Name:   "预置任务",
		Date:   date,
		Time:   "20:00",
		Status: status,
	}
	if err := tr.mission.Create(context.Background(), mission); err != nil {
		t.Fatalf("预置任务失败: %v", err)
	}
}

func countByStatus(results []dto.ProcessingResult, status dto.ProcessingStatus) int {
	n := 0
	for i := range results {
		if results[i].Status == status {
			n++
		}
	}
	return n
}

func TestProcessCreatesThreeWeeks(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "夜间射击", 2, 0, true)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("期望 3 条结果，得到 %d", len(resp.Results))
	}
	if resp.Summary.Created != 3 || resp.Summary.Skipped != 0 || resp.Summary.Failed != 0 {
		t.Fatalf("汇总不符: %+v", resp.Summary)
	}

	now := time.Now()
	for offset := 1; offset <= 3; offset++ {
		want := schedule.CandidateDate(now, offset, template.DayOfWeek)
		result := resp.Results[offset-1]
		if result.Status != dto.ProcessingCreated {
			t.Fatalf("第%d周期望 created，得到 %s", offset, result.Status)
		}
		if result.ScheduledDate != want {
			t.Fatalf("第%d周期望日期 %s，得到 %s", offset, want, result.ScheduledDate)
		}
		if result.Rescheduled {
			t.Fatalf("无冲突时第%d周不应标记顺延", offset)
		}

		exists, err := tr.instance.Exists(context.Background(), template.RecurringTrainingID, want)
		if err != nil || !exists {
			t.Fatalf("第%d周台账缺失: exists=%v err=%v", offset, exists, err)
		}
		training, err := tr.training.GetByID(context.Background(), result.TrainingID)
		if err != nil {
			t.Fatalf("第%d周训练缺失: %v", offset, err)
		}
		if training.Date != want || training.Time != "19:00" {
			t.Fatalf("训练日期时间不符: %s %s", training.Date, training.Time)
		}
		if training.Status != model.EventScheduled {
			t.Fatalf("生成的训练应为 scheduled，得到 %s", training.Status)
		}
	}
}

func TestProcessIdempotent(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	seedTemplate(t, tr, "战术演练", 4, 0, true)

	first, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("第一轮生成失败: %v", err)
	}
	if first.Summary.Created != 3 {
		t.Fatalf("第一轮期望 created=3，得到 %d", first.Summary.Created)
	}

	second, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("第二轮生成失败: %v", err)
	}
	if second.Summary.Created != 0 || second.Summary.Skipped != 3 {
		t.Fatalf("重复执行应全部跳过: %+v", second.Summary)
	}
	if len(tr.training.items) != 3 {
		t.Fatalf("重复执行不应新增训练，现有 %d", len(tr.training.items))
	}
}

func TestProcessConflictDefersOneWeek(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "山地行军", 3, 0, true)

	now := time.Now()
	week1 := schedule.CandidateDate(now, 1, template.DayOfWeek)
	week2 := schedule.CandidateDate(now, 2, template.DayOfWeek)
	seedMission(t, tr, week1, model.EventScheduled)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}

	// 第一周顺延到第二周的日期；第二周因台账已有该日期而跳过
	r1 := resp.Results[0]
	if r1.Status != dto.ProcessingCreated || !r1.Rescheduled {
		t.Fatalf("第一周应顺延生成: %+v", r1)
	}
	if r1.ScheduledDate != week2 {
		t.Fatalf("顺延日期期望 %s，得到 %s", week2, r1.ScheduledDate)
	}
	r2 := resp.Results[1]
	if r2.Status != dto.ProcessingSkipped {
		t.Fatalf("第二周应跳过: %+v", r2)
	}
	r3 := resp.Results[2]
	if r3.Status != dto.ProcessingCreated || r3.Rescheduled {
		t.Fatalf("第三周应正常生成: %+v", r3)
	}
	if resp.Summary.Created != 2 || resp.Summary.Skipped != 1 {
		t.Fatalf("汇总不符: %+v", resp.Summary)
	}
}

func TestProcessThirdWeekConflictSkips(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "直升机索降", 5, 0, true)

	week3 := schedule.CandidateDate(time.Now(), 3, template.DayOfWeek)
	seedMission(t, tr, week3, model.EventInProgress)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	r3 := resp.Results[2]
	if r3.Status != dto.ProcessingSkipped {
		t.Fatalf("第三周冲突应直接跳过，不做顺延: %+v", r3)
	}
	if len(tr.training.items) != 2 {
		t.Fatalf("期望生成 2 个训练，得到 %d", len(tr.training.items))
	}
}

func TestProcessDeferTargetAlsoConflicts(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "城市巷战", 1, 0, true)

	now := time.Now()
	week1 := schedule.CandidateDate(now, 1, template.DayOfWeek)
	week2 := schedule.CandidateDate(now, 2, template.DayOfWeek)
	week3 := schedule.CandidateDate(now, 3, template.DayOfWeek)
	seedMission(t, tr, week1, model.EventScheduled)
	seedMission(t, tr, week2, model.EventScheduled)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	// 第一周：候选与顺延日期都冲突，跳过
	if resp.Results[0].Status != dto.ProcessingSkipped {
		t.Fatalf("顺延日期仍冲突时第一周应跳过: %+v", resp.Results[0])
	}
	// 第二周：候选冲突，顺延到第三周的日期
	r2 := resp.Results[1]
	if r2.Status != dto.ProcessingCreated || !r2.Rescheduled || r2.ScheduledDate != week3 {
		t.Fatalf("第二周应顺延到 %s: %+v", week3, r2)
	}
	// 第三周：顺延已占用该日期，跳过
	if resp.Results[2].Status != dto.ProcessingSkipped {
		t.Fatalf("第三周应跳过: %+v", resp.Results[2])
	}
	if resp.Summary.Created != 1 || resp.Summary.Skipped != 2 {
		t.Fatalf("汇总不符: %+v", resp.Summary)
	}
}

func TestProcessCancelledMissionNotConflict(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "伞降训练", 6, 0, true)

	week1 := schedule.CandidateDate(time.Now(), 1, template.DayOfWeek)
	seedMission(t, tr, week1, model.EventCancelled)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	r1 := resp.Results[0]
	if r1.Status != dto.ProcessingCreated || r1.Rescheduled {
		t.Fatalf("已取消任务不构成冲突: %+v", r1)
	}
}

func TestProcessTemplateIsolation(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	broken := seedTemplate(t, tr, "故障模板", 2, 0, true)
	healthy := seedTemplate(t, tr, "正常模板", 3, 0, true)

	tr.training.failOnName = "故障模板"
	tr.training.failErr = errors.New("磁盘已满")

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("单模板失败不应使整个批次失败: %v", err)
	}

	// 故障模板：第一周 error 后放弃剩余周次
	if len(resp.Results) != 4 {
		t.Fatalf("期望 4 条结果（1 error + 3 created），得到 %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.TemplateID != broken.RecurringTrainingID || r.Status != dto.ProcessingError {
		t.Fatalf("第一条结果应为故障模板的 error: %+v", r)
	}
	if r.Error == "" {
		t.Fatal("error 结果应携带失败信息")
	}
	for i := 1; i <= 3; i++ {
		if resp.Results[i].TemplateID != healthy.RecurringTrainingID ||
			resp.Results[i].Status != dto.ProcessingCreated {
			t.Fatalf("正常模板第%d周应生成成功: %+v", i, resp.Results[i])
		}
	}
	if resp.Summary.Failed != 1 || resp.Summary.Created != 3 {
		t.Fatalf("汇总不符: %+v", resp.Summary)
	}
}

func TestProcessInactiveTemplateIgnored(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	seedTemplate(t, tr, "停用模板", 0, 0, false)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("停用模板不应产生结果: %d", len(resp.Results))
	}
}

func TestProcessDefaultMaxPersonnel(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	seedTemplate(t, tr, "未设上限", 1, 0, true)
	seedTemplate(t, tr, "已设上限", 2, 25, true)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	for i := range resp.Results {
		result := resp.Results[i]
		training, err := tr.training.GetByID(context.Background(), result.TrainingID)
		if err != nil {
			t.Fatalf("训练缺失: %v", err)
		}
		want := 25
		if result.TemplateName == "未设上限" {
			want = 40
		}
		if training.MaxPersonnel != want {
			t.Fatalf("%s 期望人数上限 %d，得到 %d", result.TemplateName, want, training.MaxPersonnel)
		}
	}
}

func TestProcessConcurrentDuplicateCleansOrphan(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "抢先生成", 4, 0, true)

	week1 := schedule.CandidateDate(time.Now(), 1, template.DayOfWeek)
	tr.instance.dupOnce = &instanceKey{templateID: template.RecurringTrainingID, date: week1}

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	r1 := resp.Results[0]
	if r1.Status != dto.ProcessingSkipped {
		t.Fatalf("台账撞唯一索引应按跳过处理: %+v", r1)
	}
	// 第一周的孤儿训练被回收，只剩第二三周的
	if len(tr.training.items) != 2 {
		t.Fatalf("孤儿训练未回收，现有 %d", len(tr.training.items))
	}
}

func TestDeleteTemplatePreservesTrainings(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "待删除模板", 5, 0, true)

	if _, err := svc.Process(context.Background(), "admin-1"); err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	if len(tr.training.items) != 3 {
		t.Fatalf("预期生成 3 个训练，得到 %d", len(tr.training.items))
	}

	if err := svc.Delete(context.Background(), template.RecurringTrainingID, "admin-1"); err != nil {
		t.Fatalf("删除模板失败: %v", err)
	}

	instances, err := tr.instance.ListByTemplate(context.Background(), template.RecurringTrainingID)
	if err != nil {
		t.Fatalf("查询台账失败: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("删除模板应清空台账，剩余 %d", len(instances))
	}
	if len(tr.training.items) != 3 {
		t.Fatalf("已生成训练应保留为历史记录，现有 %d", len(tr.training.items))
	}
	if _, err := svc.GetByID(context.Background(), template.RecurringTrainingID); !errors.Is(err, ErrRecurringNotFound) {
		t.Fatalf("模板应已删除，得到 %v", err)
	}
}

func TestProcessDeterministicOrder(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	first := seedTemplate(t, tr, "先创建", 1, 0, true)
	second := seedTemplate(t, tr, "后创建", 2, 0, true)

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	if len(resp.Results) != 6 {
		t.Fatalf("期望 6 条结果，得到 %d", len(resp.Results))
	}
	for i := 0; i < 3; i++ {
		if resp.Results[i].TemplateID != first.RecurringTrainingID {
			t.Fatalf("前三条应属于先创建的模板: %+v", resp.Results[i])
		}
	}
	for i := 3; i < 6; i++ {
		if resp.Results[i].TemplateID != second.RecurringTrainingID {
			t.Fatalf("后三条应属于后创建的模板: %+v", resp.Results[i])
		}
	}
}

func TestOccurrencesPreview(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "预览模板", 3, 0, true)

	dates, err := svc.Occurrences(context.Background(), template.RecurringTrainingID, 4)
	if err != nil {
		t.Fatalf("预览失败: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("期望 4 个日期，得到 %d", len(dates))
	}
	today := schedule.FormatDate(time.Now())
	prev := ""
	for _, d := range dates {
		parsed, err := schedule.ParseDate(d)
		if err != nil {
			t.Fatalf("预览日期非法: %v", err)
		}
		if int(parsed.Weekday()) != template.DayOfWeek {
			t.Fatalf("日期 %s 的星期几应为 %d", d, template.DayOfWeek)
		}
		if d <= today {
			t.Fatalf("预览日期 %s 不应早于今天", d)
		}
		if prev != "" && d <= prev {
			t.Fatalf("预览日期应严格递增: %s -> %s", prev, d)
		}
		prev = d
	}
}

func TestOccurrencesNotFound(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	if _, err := svc.Occurrences(context.Background(), "missing", 3); !errors.Is(err, ErrRecurringNotFound) {
		t.Fatalf("期望 ErrRecurringNotFound，得到 %v", err)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)

	day := 8
	_, err := svc.Create(context.Background(), &dto.CreateRecurringTrainingRequest{
		Name: "非法星期", DayOfWeek: &day, Time: "19:00",
	}, "admin-1")
	if !errors.Is(err, ErrRecurringInvalidDay) {
		t.Fatalf("期望 ErrRecurringInvalidDay，得到 %v", err)
	}

	sunday := 0
	_, err = svc.Create(context.Background(), &dto.CreateRecurringTrainingRequest{
		Name: "非法时间", DayOfWeek: &sunday, Time: "19:99",
	}, "admin-1")
	if !errors.Is(err, ErrRecurringInvalidTime) {
		t.Fatalf("期望 ErrRecurringInvalidTime，得到 %v", err)
	}

	// 0（周日）是合法取值
	resp, err := svc.Create(context.Background(), &dto.CreateRecurringTrainingRequest{
		Name: "周日例训", DayOfWeek: &sunday, Time: "09:00",
	}, "admin-1")
	if err != nil {
		t.Fatalf("周日模板创建失败: %v", err)
	}
	if resp.DayOfWeek != 0 || !resp.IsActive {
		t.Fatalf("响应不符: %+v", resp)
	}
}

func TestUpdateTemplateToggleActive(t *testing.T) {
	tr := newTestRepos()
	svc := newRecurringTestService(tr)
	template := seedTemplate(t, tr, "开关模板", 2, 0, true)

	inactive := false
	if _, err := svc.Update(context.Background(), template.RecurringTrainingID,
		&dto.UpdateRecurringTrainingRequest{IsActive: &inactive}, "admin-1"); err != nil {
		t.Fatalf("停用模板失败: %v", err)
	}

	resp, err := svc.Process(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("生成批次失败: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("停用后不应再生成: %d", len(resp.Results))
	}
}
