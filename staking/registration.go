// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/creator-staking/staking/account"
	"github.com/vechain/creator-staking/staking/reverts"
	"github.com/vechain/creator-staking/thor"
)

// RegisterCreator registers the caller as a creator and reserves the registration deposit.
func (s *Staking) RegisterCreator(creator thor.Address) error {
	logger.Debug("registering creator", "creator", creator)

	err := s.atomic(func() error {
		existing, err := s.accountService.GetCreator(creator)
		if err != nil {
			return err
		}
		if existing != nil {
			return reverts.ErrCreatorAlreadyRegistered
		}
		deposit := s.params.RegistrationDeposit
		ok, err := s.custody.CanReserve(creator, deposit)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.ErrInsufficientBalance
		}
		current, err := s.roundService.Current()
		if err != nil {
			return err
		}

		if err := s.custody.Reserve(creator, deposit); err != nil {
			return err
		}
		if err := s.accountService.SetCreator(account.NewCreator(creator, deposit)); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventCreatorRegistered, Round: current.Index, Creator: addr(creator)})
		return nil
	})
	if err != nil {
		logger.Info("register creator failed", "creator", creator, "error", err)
		metricLedgerOps().AddWithLabel(1, map[string]string{"op": "register", "result": result(err)})
		return err
	}

	metricLedgerOps().AddWithLabel(1, map[string]string{"op": "register", "result": "ok"})
	logger.Info("registered creator", "creator", creator)
	return nil
}

// UnregisterCreator removes a creator with no stake left and releases its deposit.
func (s *Staking) UnregisterCreator(creator thor.Address) error {
	logger.Debug("unregistering creator", "creator", creator)

	err := s.atomic(func() error {
		info, err := s.accountService.GetCreator(creator)
		if err != nil {
			return err
		}
		if info == nil {
			return reverts.ErrCreatorDNE
		}
		if !info.StakedAmount.IsZero() {
			return reverts.ErrCreatorHasStake
		}
		current, err := s.roundService.Current()
		if err != nil {
			return err
		}

		if err := s.custody.Unreserve(creator, info.Deposit); err != nil {
			return err
		}
		s.accountService.DeleteCreator(creator)
		s.emit(&Event{Kind: EventCreatorUnregistered, Round: current.Index, Creator: addr(creator)})
		return nil
	})
	if err != nil {
		logger.Info("unregister creator failed", "creator", creator, "error", err)
		metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unregister", "result": result(err)})
		return err
	}

	metricLedgerOps().AddWithLabel(1, map[string]string{"op": "unregister", "result": "ok"})
	logger.Info("unregistered creator", "creator", creator)
	return nil
}
