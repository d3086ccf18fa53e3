package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/qs3c/codequest_server/config"
)

// Unlimited 表示不限次数
const Unlimited = -1

// PaymentWindow 每日允许购买的时段，按固定 UTC 偏移计算
type PaymentWindow struct {
	loc       *time.Location
	offset    int
	startHour int
	endHour   int
}

func NewPaymentWindow(cfg config.PaymentConfig) PaymentWindow {
	return PaymentWindow{
		loc:       time.FixedZone(formatOffset(cfg.UTCOffsetMinutes), cfg.UTCOffsetMinutes*60),
		offset:    cfg.UTCOffsetMinutes,
		startHour: cfg.StartHour,
		endHour:   cfg.EndHour,
	}
}

// IsOpen 判断 now 是否落在 [startHour, endHour) 内
func (w PaymentWindow) IsOpen(now time.Time) bool {
	h := now.In(w.loc).Hour()
	return h >= w.startHour && h < w.endHour
}

// Location 窗口所在时区
func (w PaymentWindow) Location() *time.Location {
	return w.loc
}

func (w PaymentWindow) String() string {
	return fmt.Sprintf("%02d:00-%02d:00 %s", w.startHour, w.endHour, formatOffset(w.offset))
}

func formatOffset(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}

// PlanPolicy 套餐排序、每日提问上限及支付窗口
type PlanPolicy struct {
	plans  map[string]config.PlanConfig
	sorted []config.PlanConfig
	window PaymentWindow
}

func NewPlanPolicy(sub config.SubscriptionConfig, pay config.PaymentConfig) *PlanPolicy {
	plans := sub.Plans
	if len(plans) == 0 {
		plans = config.DefaultPlans()
	}

	p := &PlanPolicy{
		plans:  make(map[string]config.PlanConfig, len(plans)),
		window: NewPaymentWindow(pay),
	}
	for _, plan := range plans {
		plan.Name = strings.ToLower(plan.Name)
		p.plans[plan.Name] = plan
		p.sorted = append(p.sorted, plan)
	}
	sort.SliceStable(p.sorted, func(i, j int) bool {
		return p.sorted[i].Weight < p.sorted[j].Weight
	})

	return p
}

// Plan 按名称查找套餐，大小写不敏感
func (p *PlanPolicy) Plan(name string) (config.PlanConfig, bool) {
	plan, ok := p.plans[strings.ToLower(name)]
	return plan, ok
}

// Plans 按权重升序返回全部套餐
func (p *PlanPolicy) Plans() []config.PlanConfig {
	out := make([]config.PlanConfig, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// Lowest 权重最低的套餐，未知套餐按它处理
func (p *PlanPolicy) Lowest() config.PlanConfig {
	return p.sorted[0]
}

// IsUpgrade 目标套餐权重严格大于当前套餐
func (p *PlanPolicy) IsUpgrade(current, target string) bool {
	t, ok := p.Plan(target)
	if !ok {
		return false
	}
	c, ok := p.Plan(current)
	if !ok {
		c = p.Lowest()
	}
	return t.Weight > c.Weight
}

// DailyQuestionLimit 套餐每日提问上限，Unlimited 表示不限
func (p *PlanPolicy) DailyQuestionLimit(plan string) int {
	cfg, ok := p.Plan(plan)
	if !ok {
		cfg = p.Lowest()
	}
	if cfg.DailyQuestions < 0 {
		return Unlimited
	}
	return cfg.DailyQuestions
}

func (p *PlanPolicy) Window() PaymentWindow {
	return p.window
}
