package mailer

import (
	"fmt"
	"strings"

	"github.com/vietshop/vietshop/config"
	"github.com/vietshop/vietshop/internal/domain"
	"github.com/vietshop/vietshop/pkg/common"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail over SMTP
type Sender struct {
	cfg config.SmtpConfig
}

func NewSender(cfg config.SmtpConfig) *Sender {
	return &Sender{cfg: cfg}
}

// SendOrderConfirmation mails the order summary to the customer
func (s *Sender) SendOrderConfirmation(o *domain.Order) error {
	if s.cfg.Host == "" || o.Email == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Xin chào %s,</p>", o.CustomerName)
	fmt.Fprintf(&b, "<p>Cảm ơn bạn đã đặt hàng tại VietShop. Mã đơn hàng của bạn là <b>%s</b>.</p>", o.OrderNo)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Sản phẩm</th><th>SL</th><th>Đơn giá</th></tr>")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			it.ProductName, it.Quantity, common.FormatVND(it.Price))
	}
	b.WriteString("</table>")
	if o.Discount > 0 {
		fmt.Fprintf(&b, "<p>Giảm giá (%s): -%s</p>", o.VoucherCode, common.FormatVND(o.Discount))
	}
	fmt.Fprintf(&b, "<p>Tổng cộng: <b>%s</b></p>", common.FormatVND(o.Total))

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", o.Email)
	m.SetHeader("Subject", "VietShop - Xác nhận đơn hàng "+o.OrderNo)
	m.SetBody("text/html", b.String())

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
