package forme

import "testing"

func TestObservable(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		obs := NewObservable("one")
		if obs.Get() != "one" {
			t.Errorf("expected 'one', got %q", obs.Get())
		}
	})

	t.Run("SetNotifies", func(t *testing.T) {
		obs := NewObservable(1)
		var got []int
		obs.Subscribe(func(v int) { got = append(got, v) })

		obs.Set(2)
		obs.Set(3)

		if len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Errorf("expected [2 3], got %v", got)
		}
	})

	t.Run("EqualSetIsNoop", func(t *testing.T) {
		obs := NewObservable("same")
		calls := 0
		obs.Subscribe(func(string) { calls++ })

		obs.Set("same")

		if calls != 0 {
			t.Errorf("expected 0 calls, got %d", calls)
		}
	})

	t.Run("StoresBeforeNotify", func(t *testing.T) {
		obs := NewObservable(0)
		seen := -1
		obs.Subscribe(func(int) { seen = obs.Get() })

		obs.Set(7)

		if seen != 7 {
			t.Errorf("expected subscriber to see 7, got %d", seen)
		}
	})

	t.Run("SubscriptionOrder", func(t *testing.T) {
		obs := NewObservable(0)
		var order []string
		obs.Subscribe(func(int) { order = append(order, "a") })
		obs.Subscribe(func(int) { order = append(order, "b") })
		obs.Subscribe(func(int) { order = append(order, "c") })

		obs.Set(1)

		if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
			t.Errorf("expected [a b c], got %v", order)
		}
	})

	t.Run("LateSubscriberSeesOnlyLaterWrites", func(t *testing.T) {
		obs := NewObservable(0)
		obs.Set(1)
		obs.Set(2)

		var got []int
		obs.Subscribe(func(v int) { got = append(got, v) })
		obs.Set(3)

		if len(got) != 1 || got[0] != 3 {
			t.Errorf("expected [3], got %v", got)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		obs := NewObservable(0)
		calls := 0
		tok := obs.Subscribe(func(int) { calls++ })

		obs.Set(1)
		if !obs.Unsubscribe(tok) {
			t.Error("expected first unsubscribe to succeed")
		}
		if obs.Unsubscribe(tok) {
			t.Error("expected second unsubscribe to report not found")
		}
		obs.Set(2)

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		if obs.Len() != 0 {
			t.Errorf("expected no listeners, got %d", obs.Len())
		}
	})

	t.Run("UnsubscribeKeepsOthers", func(t *testing.T) {
		obs := NewObservable(0)
		var got []string
		obs.Subscribe(func(int) { got = append(got, "a") })
		tok := obs.Subscribe(func(int) { got = append(got, "b") })
		obs.Subscribe(func(int) { got = append(got, "c") })

		obs.Unsubscribe(tok)
		obs.Set(1)

		if len(got) != 2 || got[0] != "a" || got[1] != "c" {
			t.Errorf("expected [a c], got %v", got)
		}
	})

	t.Run("ReentrantWrite", func(t *testing.T) {
		obs := NewObservable(0)
		var got []int
		obs.Subscribe(func(v int) {
			if v == 1 {
				obs.Set(2)
			}
		})
		obs.Subscribe(func(v int) { got = append(got, v) })

		obs.Set(1)

		// the nested write notifies first; the outer pass resumes with the current value
		if len(got) != 2 || got[0] != 2 || got[1] != 2 {
			t.Errorf("expected [2 2], got %v", got)
		}
		if obs.Get() != 2 {
			t.Errorf("expected final value 2, got %d", obs.Get())
		}
	})
}
