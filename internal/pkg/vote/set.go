package vote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Set 有序的投票者 ID 集合，以 JSON 数组形式落库
type Set []int64

// Has 判断 id 是否在集合中
func (s Set) Has(id int64) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= id })
	return i < len(s) && s[i] == id
}

// Add 插入 id，已存在时返回 false
func (s *Set) Add(id int64) bool {
	cur := *s
	i := sort.Search(len(cur), func(i int) bool { return cur[i] >= id })
	if i < len(cur) && cur[i] == id {
		return false
	}
	cur = append(cur, 0)
	copy(cur[i+1:], cur[i:])
	cur[i] = id
	*s = cur
	return true
}

// Remove 移除 id，不存在时返回 false
func (s *Set) Remove(id int64) bool {
	cur := *s
	i := sort.Search(len(cur), func(i int) bool { return cur[i] >= id })
	if i >= len(cur) || cur[i] != id {
		return false
	}
	*s = append(cur[:i], cur[i+1:]...)
	return true
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]int64(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *Set) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = Set{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("vote: cannot scan %T into Set", value)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("vote: invalid set payload: %w", err)
	}

	// 兼容历史数据中的乱序和重复
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		out = append(out, id)
	}
	*s = Set(out)
	return nil
}

// MarshalJSON nil 集合输出为空数组
func (s Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(s))
}
