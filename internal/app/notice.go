package app

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

func (k NoticeKind) String() string {
	if k == NoticeError {
		return "error"
	}
	return "success"
}

// Notice is a transient, dismissible message.
type Notice struct {
	Text string
	Kind NoticeKind
}

const maxNotices = 8

// Notify queues a notice; the oldest are dropped past a small bound.
func (c *Controller) Notify(kind NoticeKind, text string) {
	c.notices = append(c.notices, Notice{Text: text, Kind: kind})
	if len(c.notices) > maxNotices {
		c.notices = append([]Notice(nil), c.notices[len(c.notices)-maxNotices:]...)
	}
}

// Notices returns the queued notices without consuming them.
func (c *Controller) Notices() []Notice {
	return append([]Notice(nil), c.notices...)
}

// PopNotice removes and returns the oldest notice.
func (c *Controller) PopNotice() (Notice, bool) {
	if len(c.notices) == 0 {
		return Notice{}, false
	}
	n := c.notices[0]
	c.notices = c.notices[1:]
	return n, true
}

// DrainNotices removes and returns all queued notices.
func (c *Controller) DrainNotices() []Notice {
	out := c.notices
	c.notices = nil
	return out
}
