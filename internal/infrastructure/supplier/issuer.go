package supplier

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

var _ stock.PurchaseOrderIssuer = (*Issuer)(nil)

// Issuer implementa la frontera PurchaseOrderIssuer: persiste la orden con
// el repositorio atado a la transacción del pipeline y notifica por correo
// al buzón de compras. Si la notificación falla, el error hace que el
// caller haga rollback y la orden no quede registrada (el timestamp de
// auto-orden tampoco avanza, permitiendo el reintento natural).
type Issuer struct {
	smtp config.SMTPConfig
	log  *logger.Logger
}

// NewIssuer construye el emisor de órdenes de compra.
func NewIssuer(smtp config.SMTPConfig, log *logger.Logger) *Issuer {
	return &Issuer{smtp: smtp, log: log}
}

// Issue persiste la orden y envía la notificación. Devuelve el ID de la
// orden creada.
func (i *Issuer) Issue(ctx context.Context, orderRepo repository.PurchaseOrderRepository, order *entity.PurchaseOrder) (string, error) {
	if err := orderRepo.Create(ctx, order); err != nil {
		return "", err
	}
	if err := i.notify(order); err != nil {
		return "", fmt.Errorf("notificar orden %s: %w", order.ID, err)
	}
	return order.ID, nil
}

// notify envía el correo de la orden. Sin SMTP configurado (desarrollo)
// solo deja constancia en el log.
func (i *Issuer) notify(order *entity.PurchaseOrder) error {
	if i.smtp.Host == "" {
		i.log.Info().
			Str("order_id", order.ID).
			Str("seller_id", order.SellerID).
			Msg("SMTP no configurado; notificación de orden simulada")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", i.smtp.From)
	m.SetHeader("To", i.smtp.OrdersTo)
	m.SetHeader("Subject", fmt.Sprintf("Orden de compra %s (proveedor %s)", order.ID, order.SellerID))
	m.SetBody("text/plain", fmt.Sprintf(
		"Orden de reposición automática\n\nOrden: %s\nProducto: %s\nProveedor: %s\nCantidad: %s\nFecha: %s\n",
		order.ID, order.ProductID, order.SellerID, order.Quantity.String(),
		order.CreatedAt.Format("2006-01-02 15:04:05"),
	))

	d := gomail.NewDialer(i.smtp.Host, i.smtp.Port, i.smtp.User, i.smtp.Password)
	return d.DialAndSend(m)
}
