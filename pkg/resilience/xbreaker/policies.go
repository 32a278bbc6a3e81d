package xbreaker

// TripPolicy 熔断判定策略，ReadyToTrip 返回 true 时 Closed → Open。
type TripPolicy interface {
	ReadyToTrip(counts Counts) bool
}

// SuccessPolicy 成功判定策略，默认 err == nil 即成功。
type SuccessPolicy interface {
	IsSuccessful(err error) bool
}

// SuccessFunc 将普通函数适配为 SuccessPolicy。
type SuccessFunc func(err error) bool

// IsSuccessful 调用 f。
func (f SuccessFunc) IsSuccessful(err error) bool { return f(err) }

// ConsecutiveFailuresPolicy 连续失败达到阈值时熔断。
type ConsecutiveFailuresPolicy struct {
	threshold uint32
}

// NewConsecutiveFailures 创建连续失败策略，threshold 为 0 时按 1 处理。
func NewConsecutiveFailures(threshold uint32) *ConsecutiveFailuresPolicy {
	return &ConsecutiveFailuresPolicy{threshold: max(threshold, 1)}
}

// ReadyToTrip 连续失败次数达到阈值时返回 true。
func (p *ConsecutiveFailuresPolicy) ReadyToTrip(counts Counts) bool {
	return counts.ConsecutiveFailures >= p.threshold
}

// FailureRatioPolicy 请求数达到 minRequests 后按失败率熔断。
type FailureRatioPolicy struct {
	ratio       float64
	minRequests uint32
}

// NewFailureRatio 创建失败率策略，ratio 截断到 [0, 1]。
func NewFailureRatio(ratio float64, minRequests uint32) *FailureRatioPolicy {
	return &FailureRatioPolicy{ratio: min(max(ratio, 0), 1), minRequests: minRequests}
}

// ReadyToTrip 失败率达到阈值时返回 true。
func (p *FailureRatioPolicy) ReadyToTrip(counts Counts) bool {
	if counts.Requests == 0 || counts.Requests < p.minRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= p.ratio
}

var (
	_ TripPolicy    = (*ConsecutiveFailuresPolicy)(nil)
	_ TripPolicy    = (*FailureRatioPolicy)(nil)
	_ SuccessPolicy = SuccessFunc(nil)
)
