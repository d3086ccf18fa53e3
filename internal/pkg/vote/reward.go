package vote

// 积分变动原因
const (
	ReasonUpvoteBonus        = "upvote_bonus"
	ReasonUpvoteBonusRevoked = "upvote_bonus_revoked"
	ReasonDownvotePenalty    = "downvote_penalty"
	ReasonDownvoteRefund     = "downvote_refund"
)

// Effect 一次投票对回答作者产生的积分变动
type Effect struct {
	Delta  int64
	Reason string
}

// RewardRule 回答投票的奖惩规则
type RewardRule struct {
	Threshold       int   // 达到该赞数发放奖励
	Bonus           int64 // 奖励积分
	DownvotePenalty int64 // 每个反对票扣除的积分
}

func DefaultRewardRule() RewardRule {
	return RewardRule{Threshold: 5, Bonus: 5, DownvotePenalty: 1}
}

// Settle 根据计数变化结算积分，paid 为奖励锁存位，会被原地更新。
// 先判断奖励阈值，再计算反对票差值。
func (r RewardRule) Settle(t Tally, paid *bool) []Effect {
	var effects []Effect

	if t.CurUp >= r.Threshold && !*paid {
		effects = append(effects, Effect{Delta: r.Bonus, Reason: ReasonUpvoteBonus})
		*paid = true
	} else if t.CurUp < r.Threshold && *paid {
		effects = append(effects, Effect{Delta: -r.Bonus, Reason: ReasonUpvoteBonusRevoked})
		*paid = false
	}

	if t.CurDown > t.PrevDown {
		effects = append(effects, Effect{Delta: -r.DownvotePenalty, Reason: ReasonDownvotePenalty})
	} else if t.CurDown < t.PrevDown {
		effects = append(effects, Effect{Delta: r.DownvotePenalty, Reason: ReasonDownvoteRefund})
	}

	return effects
}

// Net 汇总多个变动
func Net(effects []Effect) int64 {
	var sum int64
	for _, e := range effects {
		sum += e.Delta
	}
	return sum
}
