package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
)

// 内存 Repository 实现，供 Service 层测试使用。
// 台账 mock 和真库一样在 (模板, 日期) 上保证唯一，
// 重复插入返回 gorm.ErrDuplicatedKey，幂等路径因此可在内存中复现。

// ── Campaign ──

type mockCampaignRepo struct {
	mu    sync.Mutex
	items map[string]*model.Campaign
	err   error // 注入后所有方法直接返回该错误
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{items: make(map[string]*model.Campaign)}
}

func (m *mockCampaignRepo) Create(_ context.Context, campaign *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if campaign.CampaignID == "" {
		campaign.CampaignID = uuid.New().String()
	}
	if campaign.Version == 0 {
		campaign.Version = 1
	}
	stored := *campaign
	m.items[campaign.CampaignID] = &stored
	return nil
}

func (m *mockCampaignRepo) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *mockCampaignRepo) List(_ context.Context) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Campaign, 0, len(m.items))
	for _, c := range m.items {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate > result[j].StartDate })
	return result, nil
}

func (m *mockCampaignRepo) Update(_ context.Context, campaign *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[campaign.CampaignID]
	if !ok || stored.Version != campaign.Version {
		return pkgerrors.ErrOptimisticLock
	}
	campaign.Version++
	copied := *campaign
	m.items[campaign.CampaignID] = &copied
	return nil
}

func (m *mockCampaignRepo) UpdateStatus(_ context.Context, id string, status model.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (m *mockCampaignRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, id)
	return nil
}

// ── Mission ──

type mockMissionRepo struct {
	mu    sync.Mutex
	items map[string]*model.Mission
	err   error
}

func newMockMissionRepo() *mockMissionRepo {
	return &mockMissionRepo{items: make(map[string]*model.Mission)}
}

func (m *mockMissionRepo) Create(_ context.Context, mission *model.Mission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if mission.MissionID == "" {
		mission.MissionID = uuid.New().String()
	}
	if mission.Version == 0 {
		mission.Version = 1
	}
	stored := *mission
	m.items[mission.MissionID] = &stored
	return nil
}

func (m *mockMissionRepo) GetByID(_ context.Context, id string) (*model.Mission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *mockMissionRepo) List(_ context.Context, from, to string) ([]model.Mission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Mission, 0, len(m.items))
	for _, mi := range m.items {
		if from != "" && mi.Date < from {
			continue
		}
		if to != "" && mi.Date > to {
			continue
		}
		result = append(result, *mi)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (m *mockMissionRepo) CountActiveOnDate(_ context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, mi := range m.items {
		if mi.Date == date && mi.Status.Active() {
			count++
		}
	}
	return count, nil
}

func (m *mockMissionRepo) Update(_ context.Context, mission *model.Mission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[mission.MissionID]
	if !ok || stored.Version != mission.Version {
		return pkgerrors.ErrOptimisticLock
	}
	mission.Version++
	copied := *mission
	m.items[mission.MissionID] = &copied
	return nil
}

func (m *mockMissionRepo) UpdateStatus(_ context.Context, id string, status model.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (m *mockMissionRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, id)
	return nil
}

// ── Training ──

type mockTrainingRepo struct {
	mu    sync.Mutex
	items map[string]*model.Training
	err   error
	// failOnName 非空时，创建同名训练返回 failErr，用于模拟单模板落库失败
	failOnName string
	failErr    error
}

func newMockTrainingRepo() *mockTrainingRepo {
	return &mockTrainingRepo{items: make(map[string]*model.Training)}
}

func (m *mockTrainingRepo) Create(_ context.Context, training *model.Training) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.failOnName != "" && training.Name == m.failOnName {
		return m.failErr
	}
	if training.TrainingID == "" {
		training.TrainingID = uuid.New().String()
	}
	if training.Version == 0 {
		training.Version = 1
	}
	stored := *training
	m.items[training.TrainingID] = &stored
	return nil
}

func (m *mockTrainingRepo) GetByID(_ context.Context, id string) (*model.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *mockTrainingRepo) List(_ context.Context, from, to string) ([]model.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Training, 0, len(m.items))
	for _, t := range m.items {
		if from != "" && t.Date < from {
			continue
		}
		if to != "" && t.Date > to {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (m *mockTrainingRepo) Update(_ context.Context, training *model.Training) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[training.TrainingID]
	if !ok || stored.Version != training.Version {
		return pkgerrors.ErrOptimisticLock
	}
	training.Version++
	copied := *training
	m.items[training.TrainingID] = &copied
	return nil
}

func (m *mockTrainingRepo) UpdateStatus(_ context.Context, id string, status model.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (m *mockTrainingRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, id)
	return nil
}

// ── RecurringTraining ──

type mockRecurringTrainingRepo struct {
	mu    sync.Mutex
	items map[string]*model.RecurringTraining
	order []string // 插入序即 created_at 序
	err   error
}

func newMockRecurringTrainingRepo() *mockRecurringTrainingRepo {
	return &mockRecurringTrainingRepo{items: make(map[string]*model.RecurringTraining)}
}

func (m *mockRecurringTrainingRepo) Create(_ context.Context, template *model.RecurringTraining) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if template.RecurringTrainingID == "" {
		template.RecurringTrainingID = uuid.New().String()
	}
	if template.Version == 0 {
		template.Version = 1
	}
	stored := *template
	m.items[template.RecurringTrainingID] = &stored
	m.order = append(m.order, template.RecurringTrainingID)
	return nil
}

func (m *mockRecurringTrainingRepo) GetByID(_ context.Context, id string) (*model.RecurringTraining, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *mockRecurringTrainingRepo) List(_ context.Context) ([]model.RecurringTraining, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.RecurringTraining, 0, len(m.order))
	for _, id := range m.order {
		if t, ok := m.items[id]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockRecurringTrainingRepo) ListActive(_ context.Context) ([]model.RecurringTraining, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.RecurringTraining, 0, len(m.order))
	for _, id := range m.order {
		if t, ok := m.items[id]; ok && t.IsActive {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockRecurringTrainingRepo) Update(_ context.Context, template *model.RecurringTraining) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.items[template.RecurringTrainingID]
	if !ok || stored.Version != template.Version {
		return pkgerrors.ErrOptimisticLock
	}
	template.Version++
	copied := *template
	m.items[template.RecurringTrainingID] = &copied
	return nil
}

func (m *mockRecurringTrainingRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, id)
	return nil
}

// ── RecurringInstance ──

type instanceKey struct {
	templateID string
	date       string
}

type mockRecurringInstanceRepo struct {
	mu    sync.Mutex
	items map[instanceKey]*model.RecurringInstance
	err   error
	// dupOnce 非空时，下一次对该键的插入强制返回 ErrDuplicatedKey，
	// 用于模拟并发批次抢先写台账
	dupOnce *instanceKey
}

func newMockRecurringInstanceRepo() *mockRecurringInstanceRepo {
	return &mockRecurringInstanceRepo{items: make(map[instanceKey]*model.RecurringInstance)}
}

func (m *mockRecurringInstanceRepo) Create(_ context.Context, instance *model.RecurringInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := instanceKey{templateID: instance.RecurringTrainingID, date: instance.ScheduledDate}
	if m.dupOnce != nil && *m.dupOnce == key {
		m.dupOnce = nil
		return gorm.ErrDuplicatedKey
	}
	if _, exists := m.items[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	if instance.InstanceID == "" {
		instance.InstanceID = uuid.New().String()
	}
	stored := *instance
	m.items[key] = &stored
	return nil
}

func (m *mockRecurringInstanceRepo) Exists(_ context.Context, templateID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.items[instanceKey{templateID: templateID, date: date}]
	return ok, nil
}

func (m *mockRecurringInstanceRepo) ListByTemplate(_ context.Context, templateID string) ([]model.RecurringInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.RecurringInstance, 0)
	for key, inst := range m.items {
		if key.templateID == templateID {
			result = append(result, *inst)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledDate < result[j].ScheduledDate })
	return result, nil
}

func (m *mockRecurringInstanceRepo) DeleteByTemplate(_ context.Context, templateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for key := range m.items {
		if key.templateID == templateID {
			delete(m.items, key)
		}
	}
	return nil
}

// ── 测试装配 ──

type testRepos struct {
	campaign  *mockCampaignRepo
	mission   *mockMissionRepo
	training  *mockTrainingRepo
	recurring *mockRecurringTrainingRepo
	instance  *mockRecurringInstanceRepo
	repo      *repository.Repository
}

func newTestRepos() *testRepos {
	tr := &testRepos{
		campaign:  newMockCampaignRepo(),
		mission:   newMockMissionRepo(),
		training:  newMockTrainingRepo(),
		recurring: newMockRecurringTrainingRepo(),
		instance:  newMockRecurringInstanceRepo(),
	}
	tr.repo = &repository.Repository{
		Campaign:          tr.campaign,
		Mission:           tr.mission,
		Training:          tr.training,
		RecurringTraining: tr.recurring,
		RecurringInstance: tr.instance,
	}
	return tr
}
