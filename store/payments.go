package store

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

func (s *Store) CreateTransaction(txn *models.PaymentTransaction) error {
	return s.db.Create(txn).Error
}

func (s *Store) GetTransaction(txnID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := s.db.First(&txn, "transaction_id = ?", txnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// CompleteTransaction records the verified gateway outcome on the
// transaction row. Setting the same terminal status twice is harmless, which
// makes duplicate callback delivery safe.
func (s *Store) CompleteTransaction(txnID string, status models.TransactionStatus, gatewayTxnID string, rawResponse []byte) error {
	updates := map[string]interface{}{
		"status":           status,
		"gateway_response": datatypes.JSON(rawResponse),
	}
	if gatewayTxnID != "" {
		updates["gateway_transaction_id"] = gatewayTxnID
	}
	return s.db.Model(&models.PaymentTransaction{}).
		Where("transaction_id = ?", txnID).
		Updates(updates).Error
}
